package design

import "fmt"

// Demo returns a deterministic synthetic design used by --demo mode and by
// benchmarks. The generate array is deliberately wider than the default
// pagination limit so the placeholder path gets exercised out of the box.
func Demo() *Design {
	d := &Design{Name: "demo"}
	top := &Instance{Name: "work@soc", Module: "work@soc_top", Kind: KindModule}

	for c := 0; c < 4; c++ {
		core := child(top, fmt.Sprintf("core%d", c), "work@cpu_core", KindModule)
		fetch := child(core, "u_fetch", "work@fetch_stage", KindModule)
		child(fetch, "u_icache", "work@cache_2way", KindModule)
		decode := child(core, "u_decode", "work@decode_stage", KindModule)
		child(decode, "dec_assert", "check_onehot", KindTaskFunc)
		lsu := child(core, "u_lsu", "work@load_store", KindModule)
		child(lsu, "u_dcache", "work@cache_2way", KindModule)
	}

	mesh := child(top, "gen_mesh", "work@mesh", KindGenerate)
	for i := 0; i < 1200; i++ {
		node := child(mesh, fmt.Sprintf("node[%d]", i), "work@mesh_node", KindGenerate)
		child(node, "u_router", "work@router", KindModule)
	}

	periph := child(top, "u_periph", "work@periph_subsys", KindModule)
	child(periph, "u_uart", "work@uart16550", KindModule)
	child(periph, "u_spi", "work@spi_master", KindModule)
	child(periph, "u_dma", "work@dma_engine", KindModule)

	d.Tops = append(d.Tops, top)
	return d
}

func child(parent *Instance, name, module string, kind Kind) *Instance {
	inst := &Instance{Name: name, Module: module, Kind: kind, Parent: parent}
	parent.Subs = append(parent.Subs, inst)
	return inst
}
