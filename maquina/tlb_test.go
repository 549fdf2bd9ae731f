package maquina

import "testing"

func nuevaEntrada(vpn, marco int) *EntradaTraduccion {
	return &EntradaTraduccion{
		PaginaVirtual: vpn,
		MarcoFisico:   marco,
		Valida:        true,
	}
}

func TestTLBHitYMiss(t *testing.T) {
	tlb := NuevoTLBManager(4, NuevoReemplazoFIFO(4))

	if tlb.Buscar(7) != nil {
		t.Fatal("el TLB vacío no debería tener la página 7")
	}

	tlb.Cachear(nuevaEntrada(7, 3))

	entrada := tlb.Buscar(7)
	if entrada == nil {
		t.Fatal("la página 7 debería estar cacheada")
	}
	if entrada.MarcoFisico != 3 {
		t.Errorf("marco = %d, esperaba 3", entrada.MarcoFisico)
	}
}

func TestTLBLlenaSlotsInvalidosPrimero(t *testing.T) {
	tlb := NuevoTLBManager(4, NuevoReemplazoFIFO(4))

	for vpn := 0; vpn < 4; vpn++ {
		tlb.Cachear(nuevaEntrada(vpn, vpn+10))
	}
	for vpn := 0; vpn < 4; vpn++ {
		if tlb.Buscar(vpn) == nil {
			t.Errorf("la página %d debería seguir cacheada", vpn)
		}
	}

	// el quinto cacheo expulsa por FIFO al slot 0
	tlb.Cachear(nuevaEntrada(4, 14))
	if tlb.Buscar(0) != nil {
		t.Error("la página 0 debería haber sido expulsada")
	}
	if tlb.Buscar(4) == nil {
		t.Error("la página 4 debería estar cacheada")
	}
}

func TestTLBLimpiar(t *testing.T) {
	tlb := NuevoTLBManager(4, NuevoReemplazoFIFO(4))
	tlb.Cachear(nuevaEntrada(1, 1))
	tlb.Cachear(nuevaEntrada(2, 2))

	tlb.Limpiar()

	if tlb.Buscar(1) != nil || tlb.Buscar(2) != nil {
		t.Error("Limpiar debería invalidar todas las entradas")
	}
}

func TestTLBInvalidar(t *testing.T) {
	tlb := NuevoTLBManager(4, NuevoReemplazoFIFO(4))
	entrada := nuevaEntrada(5, 2)
	tlb.Cachear(entrada)

	expulsada := tlb.Invalidar(5)
	if expulsada == nil {
		t.Fatal("Invalidar debería devolver la entrada expulsada")
	}
	if tlb.Buscar(5) != nil {
		t.Error("la página 5 no debería seguir cacheada")
	}
	if tlb.Invalidar(5) != nil {
		t.Error("Invalidar repetido debería devolver nil")
	}
}

func TestReemplazoFIFOCircular(t *testing.T) {
	fifo := NuevoReemplazoFIFO(3)

	esperados := []int{0, 1, 2, 0, 1}
	for _, esperado := range esperados {
		if victima := fifo.ElegirVictima(); victima != esperado {
			t.Errorf("víctima = %d, esperaba %d", victima, esperado)
		}
	}

	fifo.Reiniciar()
	if fifo.ElegirVictima() != 0 {
		t.Error("después de Reiniciar la víctima debería ser 0")
	}
}

func TestReemplazoLRUEligeElMenosUsado(t *testing.T) {
	stats := NuevasEstadisticas()
	lru := NuevoReemplazoLRU(3, stats)

	stats.TotalTicks = 10
	lru.ActualizarPeso(0)
	stats.TotalTicks = 20
	lru.ActualizarPeso(1)
	stats.TotalTicks = 30
	lru.ActualizarPeso(2)

	// el 0 es el de uso más viejo
	if victima := lru.ElegirVictima(); victima != 0 {
		t.Errorf("víctima = %d, esperaba 0", victima)
	}

	stats.TotalTicks = 40
	lru.ActualizarPeso(0)
	if victima := lru.ElegirVictima(); victima != 1 {
		t.Errorf("víctima = %d, esperaba 1", victima)
	}
}
