package wgpu

// compositeShaderWGSL rasterizes one batch of triangles into the pixel
// storage buffer. Triangles within a batch share alpha mode, clip
// rectangle and texture; batch order is preserved by running one compute
// pass per batch, with implicit storage-buffer barriers between passes.
const compositeShaderWGSL = `
struct Params {
    width: u32,
    height: u32,
    mode: u32,
    has_tex: u32,
    clip_x0: i32,
    clip_y0: i32,
    clip_x1: i32,
    clip_y1: i32,
    tri_count: u32,
    tex_w: u32,
    tex_h: u32,
    _pad: u32,
};

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read> verts: array<f32>;
@group(0) @binding(2) var<storage, read_write> pixels: array<u32>;
@group(0) @binding(3) var<storage, read> tex: array<u32>;

const FLOATS_PER_VERT: u32 = 8u;

fn vert_pos(i: u32) -> vec2<f32> {
    let base = i * FLOATS_PER_VERT;
    return vec2<f32>(verts[base], verts[base + 1u]);
}

fn vert_uv(i: u32) -> vec2<f32> {
    let base = i * FLOATS_PER_VERT;
    return vec2<f32>(verts[base + 2u], verts[base + 3u]);
}

fn vert_color(i: u32) -> vec4<f32> {
    let base = i * FLOATS_PER_VERT;
    return vec4<f32>(verts[base + 4u], verts[base + 5u], verts[base + 6u], verts[base + 7u]);
}

fn unpack_rgba(p: u32) -> vec4<f32> {
    return vec4<f32>(
        f32(p & 0xFFu) / 255.0,
        f32((p >> 8u) & 0xFFu) / 255.0,
        f32((p >> 16u) & 0xFFu) / 255.0,
        f32((p >> 24u) & 0xFFu) / 255.0,
    );
}

fn pack_rgba(c: vec4<f32>) -> u32 {
    let s = clamp(c, vec4<f32>(0.0), vec4<f32>(1.0)) * 255.0;
    return u32(s.x) | (u32(s.y) << 8u) | (u32(s.z) << 16u) | (u32(s.w) << 24u);
}

// edge_owns implements the top-left fill rule so a pixel center exactly on
// an edge shared by two triangles is blended only once. flip reverses the
// effective edge direction for negative-area triangles.
fn edge_owns(a: vec2<f32>, b: vec2<f32>, flip: bool) -> bool {
    var p = a;
    var q = b;
    if (flip) {
        p = b;
        q = a;
    }
    if (p.y == q.y) {
        return q.x > p.x;
    }
    return q.y < p.y;
}

fn sample_tex(uv: vec2<f32>) -> vec4<f32> {
    let x = clamp(i32(uv.x * f32(params.tex_w)), 0, i32(params.tex_w) - 1);
    let y = clamp(i32(uv.y * f32(params.tex_h)), 0, i32(params.tex_h) - 1);
    return unpack_rgba(tex[u32(y) * params.tex_w + u32(x)]);
}

@compute @workgroup_size(8, 8, 1)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let px = i32(gid.x);
    let py = i32(gid.y);
    if (px >= i32(params.width) || py >= i32(params.height)) {
        return;
    }
    if (px < params.clip_x0 || px >= params.clip_x1 || py < params.clip_y0 || py >= params.clip_y1) {
        return;
    }

    let p = vec2<f32>(f32(px) + 0.5, f32(py) + 0.5);
    let idx = u32(py) * params.width + u32(px);
    var dst = unpack_rgba(pixels[idx]);

    for (var t = 0u; t < params.tri_count; t = t + 1u) {
        let i0 = t * 3u;
        let a = vert_pos(i0);
        let b = vert_pos(i0 + 1u);
        let c = vert_pos(i0 + 2u);

        let area = (b.x - a.x) * (c.y - a.y) - (c.x - a.x) * (b.y - a.y);
        if (area == 0.0) {
            continue;
        }
        var w0 = (b.x - p.x) * (c.y - p.y) - (c.x - p.x) * (b.y - p.y);
        var w1 = (c.x - p.x) * (a.y - p.y) - (a.x - p.x) * (c.y - p.y);
        var w2 = (a.x - p.x) * (b.y - p.y) - (b.x - p.x) * (a.y - p.y);
        if (area < 0.0) {
            w0 = -w0; w1 = -w1; w2 = -w2;
        }
        if (w0 < 0.0 || w1 < 0.0 || w2 < 0.0) {
            continue;
        }
        let flip = area < 0.0;
        if ((w0 == 0.0 && !edge_owns(b, c, flip)) ||
            (w1 == 0.0 && !edge_owns(c, a, flip)) ||
            (w2 == 0.0 && !edge_owns(a, b, flip))) {
            continue;
        }
        let inv = 1.0 / abs(area);
        let b0 = w0 * inv;
        let b1 = w1 * inv;
        let b2 = w2 * inv;

        var src = vert_color(i0) * b0 + vert_color(i0 + 1u) * b1 + vert_color(i0 + 2u) * b2;
        if (params.has_tex != 0u) {
            let uv = vert_uv(i0) * b0 + vert_uv(i0 + 1u) * b1 + vert_uv(i0 + 2u) * b2;
            src = sample_tex(uv) * src;
        }

        switch params.mode {
            case 1u: { // additive
                dst = vec4<f32>(dst.rgb + src.rgb * src.a, dst.a);
            }
            case 2u: { // multiply
                dst = dst * src;
            }
            default: {
                dst = vec4<f32>(
                    src.rgb * src.a + dst.rgb * (1.0 - src.a),
                    src.a + dst.a * (1.0 - src.a),
                );
            }
        }
    }

    pixels[idx] = pack_rgba(dst);
}
`
