package main

import (
	"fmt"
	"os"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/filesystem"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/kernel"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/maquina"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/memoria"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/userprog"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

const maxProgramasUsuario = 5

type comandoFS int

const (
	fsNinguno comandoFS = iota
	fsPut
	fsMkdir
	fsList
	fsRemove
	fsCat
	fsPrint
)

type argumentos struct {
	pasoAPaso   bool
	formatear   bool
	configPath  string
	ejecutables []string

	comando    comandoFS
	rutaLocal  string
	rutaNachos string
}

func main() {
	utils.InicializarLogger("info", "nachos")

	args := parsearArgumentos(os.Args)

	config := configPorDefecto()
	if args.configPath != "" {
		config = utils.CargarConfiguracion[NachosConfig](args.configPath)
	}
	utils.InicializarLogger(config.LogLevel, "nachos")

	utils.InfoLog.Info("Nachos iniciando", "args", os.Args)

	inicializarNucleo(config, args)

	ejecutarComandoFS(args)

	for _, ejecutable := range args.ejecutables {
		lanzarProgramaUsuario(ejecutable)
	}

	// El hilo main ya cumplió: de acá en más corren los programas de
	// usuario; cuando no quede nadie, Idle detiene la máquina.
	kernel.K.HiloActual.Finish()
}

func parsearArgumentos(argv []string) *argumentos {
	args := &argumentos{}

	for i := 1; i < len(argv); i++ {
		switch argv[i] {
		case "-s":
			args.pasoAPaso = true
		case "-e":
			exigirArgumentos(argv, i, 1)
			if len(args.ejecutables) < maxProgramasUsuario {
				args.ejecutables = append(args.ejecutables, argv[i+1])
			}
			i++
		case "-format":
			args.formatear = true
		case "-c":
			exigirArgumentos(argv, i, 1)
			args.configPath = argv[i+1]
			i++
		case "-put":
			exigirArgumentos(argv, i, 2)
			args.comando = fsPut
			args.rutaLocal = argv[i+1]
			args.rutaNachos = argv[i+2]
			i += 2
		case "-mkdir":
			exigirArgumentos(argv, i, 1)
			args.comando = fsMkdir
			args.rutaNachos = argv[i+1]
			i++
		case "-ls":
			exigirArgumentos(argv, i, 1)
			args.comando = fsList
			args.rutaNachos = argv[i+1]
			i++
		case "-rm":
			exigirArgumentos(argv, i, 1)
			args.comando = fsRemove
			args.rutaNachos = argv[i+1]
			i++
		case "-cat":
			exigirArgumentos(argv, i, 1)
			args.comando = fsCat
			args.rutaNachos = argv[i+1]
			i++
		case "-p":
			args.comando = fsPrint
		case "-u":
			fmt.Println("Uso: nachos [-s] [-c CONFIG] [-e EJECUTABLE]... [-format]")
			fmt.Println("            [-put LOCAL NACHOS] [-mkdir PATH] [-ls PATH]")
			fmt.Println("            [-rm PATH] [-cat PATH] [-p] [-u]")
		default:
			fmt.Fprintf(os.Stderr, "Argumento desconocido: %s\n", argv[i])
			os.Exit(1)
		}
	}
	return args
}

func exigirArgumentos(argv []string, i int, cantidad int) {
	if i+cantidad >= len(argv) {
		fmt.Fprintf(os.Stderr, "Faltan argumentos para %s\n", argv[i])
		os.Exit(1)
	}
}

// inicializarNucleo cablea todos los componentes en orden de dependencia
func inicializarNucleo(config *NachosConfig, args *argumentos) *kernel.Nucleo {
	nucleo := kernel.Inicializar(politica(config.Politica), config.Desalojo, nil)

	tlb := maquina.NuevoTLBManager(maquina.TamTLB,
		estrategia(config.ReemplazoTLB, maquina.TamTLB, nucleo.Stats))
	maq := maquina.NuevaMaquina(config.CantidadMarcos, tlb, args.pasoAPaso)
	maq.ManejadorExcepcion = userprog.ManejarExcepcion
	nucleo.Maquina = maq

	if config.EstimacionInicial > 0 {
		nucleo.HiloActual.SetRafagaEstimada(config.EstimacionInicial)
	}

	var disco *filesystem.DiscoSincronizado
	if config.RutaDisco == "" {
		disco = filesystem.NuevoDiscoEnMemoria(config.CantidadSectores)
	} else {
		var err error
		disco, err = filesystem.NuevoDiscoEnArchivo(config.RutaDisco, config.CantidadSectores)
		if err != nil {
			utils.ErrorLog.Error("No se pudo abrir el disco", "error", err)
			os.Exit(1)
		}
	}
	filesystem.InstalarDisco(disco)

	fs := filesystem.NuevoFileSystem(args.formatear)

	marcos := memoria.NuevoFrameManager(config.CantidadMarcos)
	coreMap := memoria.NuevoCoreMapManager(config.CantidadMarcos, marcos,
		estrategia(config.ReemplazoPaginas, config.CantidadMarcos, nucleo.Stats))
	maq.ManejadorFalloPagina = coreMap.PushEntryToTLB

	userprog.Instalar(fs, userprog.NuevaConsolaSalida(nil))

	sistemaArchivos = fs
	return nucleo
}

var sistemaArchivos *filesystem.FileSystem

func politica(nombre string) kernel.Politica {
	switch nombre {
	case "FCFS":
		return kernel.FCFS
	case "PRIORIDADES":
		return kernel.Prioridades
	case "SJF":
		return kernel.SJF
	case "RR":
		return kernel.RR
	default:
		utils.InfoLog.Warn("Algoritmo de planificación no reconocido, usando RR", "algoritmo", nombre)
		return kernel.RR
	}
}

func estrategia(nombre string, tam int, stats *maquina.Estadisticas) maquina.EstrategiaReemplazo {
	switch nombre {
	case "FIFO":
		return maquina.NuevoReemplazoFIFO(tam)
	case "LRU":
		return maquina.NuevoReemplazoLRU(tam, stats)
	default:
		utils.InfoLog.Warn("Algoritmo de reemplazo no reconocido, usando FIFO", "algoritmo", nombre)
		return maquina.NuevoReemplazoFIFO(tam)
	}
}

func ejecutarComandoFS(args *argumentos) {
	switch args.comando {
	case fsPut:
		sistemaArchivos.Put(args.rutaLocal, args.rutaNachos)
	case fsMkdir:
		sistemaArchivos.Create(args.rutaNachos, 0, true)
	case fsList:
		sistemaArchivos.List(args.rutaNachos)
	case fsRemove:
		sistemaArchivos.Remove(args.rutaNachos)
	case fsCat:
		sistemaArchivos.PrintArchivo(args.rutaNachos)
	case fsPrint:
		sistemaArchivos.Print()
	case fsNinguno:
	}
}

// lanzarProgramaUsuario forkea un hilo con su espacio de direcciones
// apuntando al ejecutable dentro del file system
func lanzarProgramaUsuario(ruta string) {
	espacio := memoria.NuevoEspacio(sistemaArchivos, ruta)
	if espacio == nil {
		return
	}

	hilo := kernel.NuevoHilo(ruta, kernel.PrioridadPorDefecto, false)
	hilo.Espacio = espacio
	hilo.Fork(func(arg any) {
		arg.(*memoria.EspacioDirecciones).Ejecutar()
	}, espacio)
}
