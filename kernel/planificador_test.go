package kernel

import (
	"fmt"
	"testing"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/maquina"
)

// encolarYDesencolar mete los hilos en la cola de listos y devuelve el
// orden en que el planificador los entrega
func encolarYDesencolar(hilos []*Hilo) []string {
	nivel := K.Interrupciones.SetLevel(maquina.IntOff)
	defer K.Interrupciones.SetLevel(nivel)

	for _, h := range hilos {
		K.Planificador.ReadyToRun(h)
	}

	var orden []string
	for !K.Planificador.colaReady.EstaVacia() {
		orden = append(orden, K.Planificador.colaReady.RemoverFrente().Nombre())
	}
	return orden
}

func compararOrden(t *testing.T, obtenido, esperado []string) {
	t.Helper()
	if len(obtenido) != len(esperado) {
		t.Fatalf("orden = %v, esperaba %v", obtenido, esperado)
	}
	for i := range esperado {
		if obtenido[i] != esperado[i] {
			t.Fatalf("orden = %v, esperaba %v", obtenido, esperado)
		}
	}
}

func TestOrdenRoundRobinEsFIFO(t *testing.T) {
	Inicializar(RR, false, nil)

	hilos := []*Hilo{
		NuevoHilo("a", 3, false),
		NuevoHilo("b", 1, false),
		NuevoHilo("c", 5, false),
	}
	compararOrden(t, encolarYDesencolar(hilos), []string{"a", "b", "c"})
}

func TestOrdenPorPrioridad(t *testing.T) {
	Inicializar(Prioridades, false, nil)

	hilos := []*Hilo{
		NuevoHilo("baja", 1, false),
		NuevoHilo("alta", 6, false),
		NuevoHilo("media", 3, false),
	}
	compararOrden(t, encolarYDesencolar(hilos), []string{"alta", "media", "baja"})
}

func TestOrdenSJFPorRafagaEstimada(t *testing.T) {
	Inicializar(SJF, false, nil)

	corto := NuevoHilo("corto", 1, false)
	corto.SetRafagaEstimada(2)
	medio := NuevoHilo("medio", 1, false)
	medio.SetRafagaEstimada(10)
	largo := NuevoHilo("largo", 1, false)
	largo.SetRafagaEstimada(50)

	compararOrden(t, encolarYDesencolar([]*Hilo{largo, corto, medio}),
		[]string{"corto", "medio", "largo"})
}

func TestEstadoReadyEnCola(t *testing.T) {
	Inicializar(RR, false, nil)

	h := NuevoHilo("h", 1, false)
	if h.Estado() != EstadoCreado {
		t.Fatalf("estado inicial = %s", h.Estado())
	}

	nivel := K.Interrupciones.SetLevel(maquina.IntOff)
	K.Planificador.ReadyToRun(h)
	if h.Estado() != EstadoReady {
		t.Errorf("estado en cola = %s, esperaba READY", h.Estado())
	}
	K.Planificador.colaReady.Remover(h)
	K.Interrupciones.SetLevel(nivel)
}

func TestReadyToRunExigeInterrupcionesOff(t *testing.T) {
	Inicializar(RR, false, nil)

	defer func() {
		if recover() == nil {
			t.Error("ReadyToRun con interrupciones habilitadas debería abortar")
		}
	}()
	K.Planificador.ReadyToRun(NuevoHilo("h", 1, false))
}

func TestFCFSConDesalojoEsFatal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FCFS con desalojo debería abortar")
		}
	}()
	NuevoPlanificador(FCFS, true)
}

func TestFindNextToRunVacia(t *testing.T) {
	Inicializar(RR, false, nil)

	nivel := K.Interrupciones.SetLevel(maquina.IntOff)
	defer K.Interrupciones.SetLevel(nivel)

	if prox := K.Planificador.FindNextToRun(); prox != nil {
		t.Errorf("con la cola vacía debería devolver nil, devolvió %s", prox.Nombre())
	}
}

// Con desalojo, el hilo actual conserva la CPU si el frente no lo
// iguala ni supera; el frente gana los empates.
func TestFindNextToRunPreemptivo(t *testing.T) {
	Inicializar(Prioridades, true, nil)

	nivel := K.Interrupciones.SetLevel(maquina.IntOff)
	defer K.Interrupciones.SetLevel(nivel)

	// main tiene prioridad 1; un hilo de menor rango no lo desplaza
	menor := NuevoHilo("menor", 0, false)
	K.Planificador.ReadyToRun(menor)
	if prox := K.Planificador.FindNextToRun(); prox != K.HiloActual {
		t.Errorf("el actual debería conservar la CPU, eligió %s", prox.Nombre())
	}

	mayor := NuevoHilo("mayor", 6, false)
	K.Planificador.ReadyToRun(mayor)
	if prox := K.Planificador.FindNextToRun(); prox != mayor {
		t.Error("un hilo de mayor rango debería desplazar al actual")
	}

	K.Planificador.colaReady.Remover(menor)
}

func TestSetSleepDesdeElMain(t *testing.T) {
	Inicializar(RR, false, nil)

	antes := K.Stats.TotalTicks
	K.Planificador.SetSleep(250)

	if K.Stats.TotalTicks < antes+250 {
		t.Errorf("el reloj avanzó hasta %d, esperaba al menos %d", K.Stats.TotalTicks, antes+250)
	}
}

func TestDormidosDespiertanEnOrden(t *testing.T) {
	Inicializar(RR, false, nil)

	var orden []string
	dormir := func(nombre string, ticks int) {
		h := NuevoHilo(nombre, 1, false)
		h.Fork(func(any) {
			K.Planificador.SetSleep(ticks)
			orden = append(orden, nombre)
		}, nil)
	}

	dormir("tarde", 500)
	dormir("temprano", 120)
	dormir("medio", 300)

	cederHasta(t, func() bool { return len(orden) == 3 }, "los tres despertaron")
	compararOrden(t, orden, []string{"temprano", "medio", "tarde"})
}

func TestSleepListOrdenadaPorTick(t *testing.T) {
	Inicializar(RR, false, nil)

	contar := 0
	dormir := func(nombre string, ticks int) {
		h := NuevoHilo(nombre, 1, false)
		h.Fork(func(any) {
			K.Planificador.SetSleep(ticks)
			contar++
		}, nil)
	}
	dormir("a", 900)
	dormir("b", 400)
	dormir("c", 700)

	// dejar que los tres se duerman
	cederHasta(t, func() bool { return K.Planificador.dormidos.Longitud() == 3 }, "tres dormidos")

	// la sleep list debe quedar ordenada por tick de despertar
	anterior := -1
	K.Planificador.dormidos.Aplicar(func(e *entradaDormido) {
		if e.cuando < anterior {
			t.Errorf("sleep list desordenada: %d después de %d", e.cuando, anterior)
		}
		anterior = e.cuando
	})

	cederHasta(t, func() bool { return contar == 3 }, "todos despertaron")
}

func TestSetSleepTicksInvalidosEsFatal(t *testing.T) {
	Inicializar(RR, false, nil)

	defer func() {
		if recover() == nil {
			t.Error("SetSleep(0) debería abortar")
		}
	}()
	K.Planificador.SetSleep(0)
}

func TestYieldAlternaHilos(t *testing.T) {
	Inicializar(RR, false, nil)

	var traza []string
	h := NuevoHilo("companero", 1, false)
	h.Fork(func(any) {
		for i := 0; i < 2; i++ {
			traza = append(traza, fmt.Sprintf("companero %d", i))
			K.HiloActual.Yield()
		}
	}, nil)

	for i := 0; i < 2; i++ {
		traza = append(traza, fmt.Sprintf("main %d", i))
		K.HiloActual.Yield()
	}

	cederHasta(t, func() bool { return len(traza) >= 4 }, "ambos corrieron")

	compararOrden(t, traza[:4], []string{"main 0", "companero 0", "main 1", "companero 1"})
}

func TestRafagaSeEstimaConPromedioExponencial(t *testing.T) {
	Inicializar(SJF, false, nil)

	h := NuevoHilo("h", 1, false)
	h.SetRafagaEstimada(8)

	// simular una ráfaga real de 4 ticks de usuario
	h.ticksInicioRafaga = K.Stats.TicksUsuario
	K.Stats.TicksUsuario += 4
	h.actualizarEstimacionRafaga()

	// 0.5*4 + 0.5*8 = 6
	if h.RafagaEstimada() != 6 {
		t.Errorf("estimación = %v, esperaba 6", h.RafagaEstimada())
	}
}

func TestPorDestruirSeRecicla(t *testing.T) {
	Inicializar(RR, false, nil)

	h := NuevoHilo("efimero", 1, false)
	h.Fork(func(any) {}, nil)

	// el hilo corre, termina y el siguiente switch lo recicla
	cederHasta(t, func() bool { return K.Planificador.porDestruir == nil && h.stack == nil }, "TCB reciclado")
}
