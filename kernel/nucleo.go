package kernel

import (
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/maquina"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

// Nucleo agrupa el estado global del kernel. Hay una única instancia
// por simulación: K. El resto de los paquetes accede a través de ella,
// igual que el original accede por su objeto kernel global.
type Nucleo struct {
	HiloActual     *Hilo
	Planificador   *Planificador
	Interrupciones *maquina.Interrupciones
	Stats          *maquina.Estadisticas
	Maquina        *maquina.Maquina
}

var K *Nucleo

// Inicializar arma el núcleo y liga el hilo "main" a la goroutine
// llamadora. La máquina puede ser nil en escenarios que no ejecutan
// programas de usuario.
func Inicializar(politica Politica, desalojo bool, m *maquina.Maquina) *Nucleo {
	stats := maquina.NuevasEstadisticas()
	inter := maquina.NuevasInterrupciones(stats)

	K = &Nucleo{
		Interrupciones: inter,
		Stats:          stats,
		Maquina:        m,
	}
	K.Planificador = NuevoPlanificador(politica, desalojo)
	inter.InstalarManejadorTimer(K.Planificador)

	principal := NuevoHilo("main", PrioridadPorDefecto, false)
	principal.estado = EstadoEjecutando
	principal.forkLlamado = true
	K.HiloActual = principal

	utils.InfoLog.Info("Núcleo inicializado",
		"politica", politica.String(),
		"desalojo", desalojo)

	inter.Habilitar()
	return K
}
