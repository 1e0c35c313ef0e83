package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/metatex"
	"github.com/gogpu/metatex/bake"
	"github.com/gogpu/metatex/shader"
)

// wgslProgram is the capability the backend needs from a program.
type wgslProgram interface {
	Source() string
	Layout() shader.Layout
	EntryPoints() (vertex, fragment string)
}

// passResources holds every object created for one render pass.
type passResources struct {
	module       hal.ShaderModule
	groupLayouts []hal.BindGroupLayout
	buffers      []hal.Buffer
	groups       []hal.BindGroup
	pipeLayout   hal.PipelineLayout
	pipeline     hal.RenderPipeline
}

func (r *passResources) destroy(device hal.Device) {
	if r.pipeline != nil {
		device.DestroyRenderPipeline(r.pipeline)
	}
	if r.pipeLayout != nil {
		device.DestroyPipelineLayout(r.pipeLayout)
	}
	for _, g := range r.groups {
		device.DestroyBindGroup(g)
	}
	for _, buf := range r.buffers {
		device.DestroyBuffer(buf)
	}
	for _, l := range r.groupLayouts {
		device.DestroyBindGroupLayout(l)
	}
	if r.module != nil {
		device.DestroyShaderModule(r.module)
	}
}

// RenderPass draws a full-screen triangle with the program into target.
func (b *Backend) RenderPass(target bake.Target, prog bake.Program, binding bake.Binding, pass int) error {
	t, ok := target.(*Target)
	if !ok || t.backend != b {
		return ErrForeignTarget
	}
	if t.released {
		return ErrReleased
	}
	if pass != bake.FirstPass {
		return fmt.Errorf("gpu: program %s has no pass %d", prog.Label(), pass)
	}
	wp, ok := prog.(wgslProgram)
	if !ok || wp.Source() == "" {
		return fmt.Errorf("%w: %s", ErrNotWGSL, prog.Label())
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	res := &passResources{}
	defer res.destroy(b.device)

	if err := b.buildPipeline(res, prog.Label(), wp); err != nil {
		return err
	}
	groupIndices, err := b.uploadUniforms(res, prog.Label(), wp.Layout(), binding)
	if err != nil {
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: prog.Label() + "_bake_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("bake_pass"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: prog.Label() + "_bake_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       t.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	rp.SetPipeline(res.pipeline)
	for i, g := range res.groups {
		rp.SetBindGroup(groupIndices[i], g, nil)
	}
	rp.Draw(3, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	metatex.Logger().Debug("gpu: bake pass", "program", prog.Label(),
		"width", t.width, "height", t.height, "groups", len(res.groups))
	return b.submitAndWait(cmdBuf)
}

// buildPipeline creates the shader module, one bind group layout per group
// index up to the highest one used, and the render pipeline.
func (b *Backend) buildPipeline(res *passResources, label string, wp wgslProgram) error {
	module, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label + "_bake_shader",
		Source: hal.ShaderSource{WGSL: wp.Source()},
	})
	if err != nil {
		return fmt.Errorf("compile shader: %w", err)
	}
	res.module = module

	entries := groupEntries(wp.Layout())
	for i, e := range entries {
		layout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("%s_bake_group%d_layout", label, i),
			Entries: e,
		})
		if err != nil {
			return fmt.Errorf("create bind group layout %d: %w", i, err)
		}
		res.groupLayouts = append(res.groupLayouts, layout)
	}

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            label + "_bake_pipe_layout",
		BindGroupLayouts: res.groupLayouts,
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	res.pipeLayout = pipeLayout

	vs, fs := wp.EntryPoints()
	pipeline, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  label + "_bake_pipeline",
		Layout: pipeLayout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: vs,
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: fs,
			Targets: []gputypes.ColorTargetState{{
				Format:    bake.TargetFormat,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	res.pipeline = pipeline
	return nil
}

// groupEntries returns the bind group layout entries for group indices
// 0..max. Groups without slot buffers get an empty layout.
func groupEntries(layout shader.Layout) [][]gputypes.BindGroupLayoutEntry {
	var out [][]gputypes.BindGroupLayoutEntry
	for _, buf := range layout.Buffers {
		for int(buf.Group) >= len(out) {
			out = append(out, nil)
		}
		out[buf.Group] = append(out[buf.Group], gputypes.BindGroupLayoutEntry{
			Binding:    buf.Binding,
			Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
			Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
		})
	}
	for _, e := range out {
		sort.Slice(e, func(i, j int) bool { return e[i].Binding < e[j].Binding })
	}
	return out
}

// uploadUniforms creates and fills one uniform buffer per reflected buffer
// and one bind group per group index. It returns the group index of each
// bind group in res.groups.
func (b *Backend) uploadUniforms(res *passResources, label string, layout shader.Layout, binding bake.Binding) ([]uint32, error) {
	byGroup := make(map[uint32][]gputypes.BindGroupEntry)
	for _, ub := range layout.Buffers {
		data := packUniforms(ub, binding)
		buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("%s_bake_%s", label, ub.Name),
			Size:  uint64(len(data)),
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, fmt.Errorf("create uniform buffer %s: %w", ub.Name, err)
		}
		res.buffers = append(res.buffers, buf)
		if err := b.queue.WriteBuffer(buf, 0, data); err != nil {
			return nil, fmt.Errorf("write uniform buffer %s: %w", ub.Name, err)
		}
		byGroup[ub.Group] = append(byGroup[ub.Group], gputypes.BindGroupEntry{
			Binding: ub.Binding,
			Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(),
				Offset: 0,
				Size:   uint64(len(data)),
			},
		})
	}

	// Bind every group index the pipeline layout declares, in order.
	var indices []uint32
	for i := range res.groupLayouts {
		g := uint32(i)
		bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label:   fmt.Sprintf("%s_bake_group%d", label, g),
			Layout:  res.groupLayouts[i],
			Entries: byGroup[g],
		})
		if err != nil {
			return nil, fmt.Errorf("create bind group %d: %w", g, err)
		}
		res.groups = append(res.groups, bg)
		indices = append(indices, g)
	}
	return indices, nil
}

// packUniforms lays out the bound values of buf's fields as little-endian
// f32 at their reflected offsets. Unbound fields stay zero. The result is
// padded to a multiple of 16 bytes.
func packUniforms(buf shader.UniformBuffer, binding bake.Binding) []byte {
	size := max(buf.Size, 16)
	size = (size + 15) &^ 15
	data := make([]byte, size)

	for _, f := range buf.Fields {
		v, ok := binding.Lookup(f.Slot)
		if !ok {
			continue
		}
		n := min(f.Components, 4)
		for c := range n {
			off := f.Offset + uint32(c)*4
			if off+4 > size {
				break
			}
			binary.LittleEndian.PutUint32(data[off:], math.Float32bits(float32(v.V[c])))
		}
	}
	return data
}
