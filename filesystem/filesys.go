package filesystem

import (
	"fmt"
	"os"
	"strings"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

// Sectores conocidos: el header del free map y el de la raíz se ubican
// ahí para poder encontrarlos al bootear
const (
	FreeMapSector   = 0
	DirectorySector = 1

	PathMaxLen = 255

	// Tamaño con el que la syscall Create crea archivos (el tamaño es
	// fijo; no hay crecimiento dinámico)
	TamArchivoPorDefecto = TamSector
)

// FileSystem implementa el árbol de directorios sobre el disco por
// sectores. El free map y la raíz quedan abiertos durante toda la vida
// del file system; toda operación que los modifica los vuelca a disco
// antes de devolver el control.
type FileSystem struct {
	archivoFreeMap *OpenFile
	archivoDirRaiz *OpenFile
	numSectores    int
}

// NuevoFileSystem abre el file system del disco instalado. Con
// formatear=true escribe un disco vacío: free map, raíz y sus headers.
func NuevoFileSystem(formatear bool) *FileSystem {
	utils.Assert(discoGlobal != nil, "no hay disco instalado")

	fs := &FileSystem{numSectores: discoGlobal.NumSectores()}

	if formatear {
		utils.InfoLog.Info("Formateando el disco")

		freeMap := NuevoBitmapPersistente(fs.numSectores)
		directorio := NuevoDirectorio(NumDirEntries)
		mapHdr := NuevoFileHeader()
		dirHdr := NuevoFileHeader()

		// Primero los sectores de los headers conocidos, que nadie más
		// los agarre
		freeMap.Mark(FreeMapSector)
		freeMap.Mark(DirectorySector)

		utils.Assert(mapHdr.Allocate(freeMap.Bitmap, fs.tamArchivoFreeMap()),
			"sin espacio para el free map")
		utils.Assert(dirHdr.Allocate(freeMap.Bitmap, DirectoryFileSize),
			"sin espacio para el directorio raíz")

		// Los headers van a disco antes de poder "abrir" los archivos
		mapHdr.WriteBack(FreeMapSector)
		dirHdr.WriteBack(DirectorySector)

		fs.archivoFreeMap = NuevoOpenFile(FreeMapSector)
		fs.archivoDirRaiz = NuevoOpenFile(DirectorySector)

		freeMap.WriteBack(fs.archivoFreeMap)
		directorio.WriteBack(fs.archivoDirRaiz)
	} else {
		fs.archivoFreeMap = NuevoOpenFile(FreeMapSector)
		fs.archivoDirRaiz = NuevoOpenFile(DirectorySector)
	}

	utils.InfoLog.Info("File system inicializado",
		"sectores", fs.numSectores,
		"formateado", formatear)
	return fs
}

func (fs *FileSystem) tamArchivoFreeMap() int {
	return utils.DivRoundUp(fs.numSectores, bitsPorByte)
}

// Create crea un archivo o directorio en el path indicado. Los
// directorios se crean con el tamaño fijo de su tabla. Ante cualquier
// fallo se revierte el estado parcial: bit del header, entrada del
// directorio y bloques de datos.
func (fs *FileSystem) Create(ruta string, tamInicial int, esDirectorio bool) bool {
	utils.Traza("Creando %s con tamaño %d", ruta, tamInicial)

	if esDirectorio {
		tamInicial = DirectoryFileSize
	}
	if tamInicial < 0 {
		return false
	}

	archivoDirPadre := fs.FindSubDirectory(ruta)
	if archivoDirPadre == nil {
		return false // path ilegal
	}

	directorio := NuevoDirectorio(NumDirEntries)
	directorio.FetchFrom(archivoDirPadre)
	nombre := ultimoElementoDelPath(ruta)

	if nombre == "" || len(nombre) > FileNameMaxLen {
		return false
	}
	if directorio.Find(nombre) != -1 {
		return false // el nombre ya existe
	}

	freeMap := NuevoBitmapPersistente(fs.numSectores)
	freeMap.FetchFrom(fs.archivoFreeMap)

	sector := freeMap.FindAndSet() // sector para el header
	if sector == -1 {
		return false // sin bloque libre para el header
	}

	if !directorio.Add(nombre, sector, esDirectorio) {
		freeMap.Clear(sector)
		return false // sin lugar en el directorio
	}

	hdr := NuevoFileHeader()
	if !hdr.Allocate(freeMap.Bitmap, tamInicial) {
		// sin espacio para los datos: deshacer todo
		hdr.Deallocate(freeMap.Bitmap)
		freeMap.Clear(sector)
		directorio.Remove(nombre)
		return false
	}

	// todo salió bien: volcar los cambios a disco
	hdr.WriteBack(sector)
	directorio.WriteBack(archivoDirPadre)
	freeMap.WriteBack(fs.archivoFreeMap)

	// un directorio nuevo nace con su tabla vacía
	if esDirectorio {
		NuevoDirectorio(NumDirEntries).WriteBack(NuevoOpenFile(sector))
	}

	utils.Traza("Creado %s en el sector %d", nombre, sector)
	return true
}

// Open abre el archivo del path para lectura y escritura. Devuelve nil
// si no existe o es un directorio.
func (fs *FileSystem) Open(ruta string) *OpenFile {
	utils.Traza("Abriendo %s", ruta)

	archivoDirPadre := fs.FindSubDirectory(ruta)
	if archivoDirPadre == nil {
		return nil
	}

	directorio := NuevoDirectorio(NumDirEntries)
	directorio.FetchFrom(archivoDirPadre)
	nombre := ultimoElementoDelPath(ruta)

	sector := directorio.Find(nombre)
	if sector < 0 || directorio.EsDir(nombre) {
		return nil
	}
	return NuevoOpenFile(sector)
}

// Remove borra el archivo del path: devuelve sus bloques y su header al
// free map y saca la entrada del directorio. No borra directorios.
func (fs *FileSystem) Remove(ruta string) bool {
	archivoDirPadre := fs.FindSubDirectory(ruta)
	if archivoDirPadre == nil {
		return false
	}

	directorio := NuevoDirectorio(NumDirEntries)
	directorio.FetchFrom(archivoDirPadre)
	nombre := ultimoElementoDelPath(ruta)
	utils.Traza("Borrando %s", nombre)

	sector := directorio.Find(nombre)
	if sector == -1 || directorio.EsDir(nombre) {
		return false
	}

	hdr := NuevoFileHeader()
	hdr.FetchFrom(sector)

	freeMap := NuevoBitmapPersistente(fs.numSectores)
	freeMap.FetchFrom(fs.archivoFreeMap)

	hdr.Deallocate(freeMap.Bitmap) // bloques de datos
	freeMap.Clear(sector)          // bloque del header
	directorio.Remove(nombre)

	directorio.WriteBack(archivoDirPadre)
	freeMap.WriteBack(fs.archivoFreeMap)
	return true
}

// List imprime las entradas del directorio del path; si el path nombra
// un archivo imprime "FILE <nombre>"
func (fs *FileSystem) List(ruta string) {
	directorio := NuevoDirectorio(NumDirEntries)
	sector := -1

	if ruta == "/" {
		sector = DirectorySector
	} else {
		archivoDirPadre := fs.FindSubDirectory(ruta)
		if archivoDirPadre == nil {
			return
		}
		nombre := ultimoElementoDelPath(ruta)
		directorio.FetchFrom(archivoDirPadre)
		sector = directorio.Find(nombre)
		if sector != -1 && !directorio.EsDir(nombre) {
			fmt.Printf("FILE %s\n", nombre)
			sector = -1
		}
	}

	if sector != -1 {
		directorio.FetchFrom(NuevoOpenFile(sector))
		directorio.List()
	}
}

// Print vuelca los metadatos globales: headers conocidos, free map y raíz
func (fs *FileSystem) Print() {
	bitHdr := NuevoFileHeader()
	dirHdr := NuevoFileHeader()
	freeMap := NuevoBitmapPersistente(fs.numSectores)
	directorio := NuevoDirectorio(NumDirEntries)

	fmt.Println("Header del free map:")
	bitHdr.FetchFrom(FreeMapSector)
	bitHdr.Imprimir()

	fmt.Println("Header del directorio raíz:")
	dirHdr.FetchFrom(DirectorySector)
	dirHdr.Imprimir()

	freeMap.FetchFrom(fs.archivoFreeMap)
	freeMap.Imprimir()

	directorio.FetchFrom(fs.archivoDirRaiz)
	directorio.Imprimir()
}

// PrintArchivo imprime el header y el contenido del archivo del path
func (fs *FileSystem) PrintArchivo(ruta string) {
	archivoDirPadre := fs.FindSubDirectory(ruta)
	if archivoDirPadre == nil {
		return
	}

	directorio := NuevoDirectorio(NumDirEntries)
	directorio.FetchFrom(archivoDirPadre)
	nombre := ultimoElementoDelPath(ruta)

	sector := directorio.Find(nombre)
	if sector != -1 && !directorio.EsDir(nombre) {
		hdr := NuevoFileHeader()
		hdr.FetchFrom(sector)
		hdr.Imprimir()
	}
}

// Put copia un archivo del host adentro del file system simulado
func (fs *FileSystem) Put(rutaLocal string, rutaNachos string) bool {
	datos, err := os.ReadFile(rutaLocal)
	if err != nil {
		utils.ErrorLog.Error("No se pudo leer el archivo local", "ruta", rutaLocal, "error", err)
		return false
	}

	if !fs.Create(rutaNachos, len(datos), false) {
		utils.ErrorLog.Error("No se pudo crear el archivo destino", "ruta", rutaNachos)
		return false
	}

	archivo := fs.Open(rutaNachos)
	if archivo == nil {
		return false
	}
	escritos := archivo.Write(datos)

	utils.InfoLog.Info("Archivo importado", "origen", rutaLocal, "destino", rutaNachos, "bytes", escritos)
	return escritos == len(datos)
}

// FindSubDirectory camina el path y devuelve un OpenFile del directorio
// PADRE del último componente, o nil si algún componente intermedio no
// existe o no es un directorio.
func (fs *FileSystem) FindSubDirectory(ruta string) *OpenFile {
	// Un nombre pelado (sin '/') se resuelve contra la raíz, igual que
	// hacen los programas de usuario
	if len(ruta) == 0 || len(ruta) > PathMaxLen {
		return nil
	}

	componentes := componentesDelPath(ruta)
	sector := DirectorySector

	directorio := NuevoDirectorio(NumDirEntries)
	for i := 0; i < len(componentes)-1; i++ {
		directorio.FetchFrom(NuevoOpenFile(sector))

		siguiente := directorio.Find(componentes[i])
		if siguiente == -1 {
			return nil
		}
		if !directorio.EsDir(componentes[i]) {
			return nil
		}
		sector = siguiente
	}

	return NuevoOpenFile(sector)
}

// componentesDelPath separa el path por '/' descartando vacíos
func componentesDelPath(ruta string) []string {
	partes := strings.Split(ruta, "/")
	componentes := make([]string, 0, len(partes))
	for _, parte := range partes {
		if parte != "" {
			componentes = append(componentes, parte)
		}
	}
	return componentes
}

// ultimoElementoDelPath devuelve el nombre final del path
func ultimoElementoDelPath(ruta string) string {
	componentes := componentesDelPath(ruta)
	if len(componentes) == 0 {
		return ""
	}
	return componentes[len(componentes)-1]
}
