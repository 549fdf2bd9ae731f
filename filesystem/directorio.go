package filesystem

import (
	"encoding/binary"
	"fmt"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

const (
	// Longitud máxima del nombre de cada componente de un path
	FileNameMaxLen = 31

	// Capacidad fija de cada directorio
	NumDirEntries = 64

	// inUse:int32 + nombre[FileNameMaxLen+1] + headerSector:int32 + isDir:int32
	tamEntradaDirectorio = 4 + FileNameMaxLen + 1 + 4 + 4

	// El directorio es un archivo común de tamaño fijo
	DirectoryFileSize = tamEntradaDirectorio * NumDirEntries
)

type EntradaDirectorio struct {
	EnUso        bool
	Nombre       string
	SectorHeader int
	EsDirectorio bool
}

// Directorio es la tabla (nombre, sector de header, es-directorio) de
// un nivel del árbol. Se persiste como un archivo cuyo header, para la
// raíz, vive en un sector conocido.
type Directorio struct {
	entradas []EntradaDirectorio
}

func NuevoDirectorio(tamTabla int) *Directorio {
	return &Directorio{
		entradas: make([]EntradaDirectorio, tamTabla),
	}
}

// FetchFrom repone la tabla desde el archivo que la persiste
func (d *Directorio) FetchFrom(archivo *OpenFile) {
	buf := make([]byte, tamEntradaDirectorio*len(d.entradas))
	leidos := archivo.ReadAt(buf, 0)
	utils.Assert(leidos == len(buf), "directorio persistido incompleto: %d bytes", leidos)

	for i := range d.entradas {
		base := i * tamEntradaDirectorio
		d.entradas[i].EnUso = binary.LittleEndian.Uint32(buf[base:]) != 0

		nombre := buf[base+4 : base+4+FileNameMaxLen+1]
		fin := 0
		for fin < len(nombre) && nombre[fin] != 0 {
			fin++
		}
		d.entradas[i].Nombre = string(nombre[:fin])

		d.entradas[i].SectorHeader = int(int32(binary.LittleEndian.Uint32(buf[base+4+FileNameMaxLen+1:])))
		d.entradas[i].EsDirectorio = binary.LittleEndian.Uint32(buf[base+4+FileNameMaxLen+1+4:]) != 0
	}
}

// WriteBack persiste la tabla en el archivo
func (d *Directorio) WriteBack(archivo *OpenFile) {
	buf := make([]byte, tamEntradaDirectorio*len(d.entradas))

	for i, entrada := range d.entradas {
		base := i * tamEntradaDirectorio
		if entrada.EnUso {
			binary.LittleEndian.PutUint32(buf[base:], 1)
		}
		copy(buf[base+4:base+4+FileNameMaxLen+1], entrada.Nombre)
		binary.LittleEndian.PutUint32(buf[base+4+FileNameMaxLen+1:], uint32(int32(entrada.SectorHeader)))
		if entrada.EsDirectorio {
			binary.LittleEndian.PutUint32(buf[base+4+FileNameMaxLen+1+4:], 1)
		}
	}

	escritos := archivo.WriteAt(buf, 0)
	utils.Assert(escritos == len(buf), "directorio persistido incompleto: %d bytes", escritos)
}

func (d *Directorio) indice(nombre string) int {
	for i, entrada := range d.entradas {
		if entrada.EnUso && entrada.Nombre == nombre {
			return i
		}
	}
	return -1
}

// Find devuelve el sector del header del nombre, o -1 si no existe
func (d *Directorio) Find(nombre string) int {
	i := d.indice(nombre)
	if i == -1 {
		return -1
	}
	return d.entradas[i].SectorHeader
}

// EsDir dice si el nombre existe y es un subdirectorio
func (d *Directorio) EsDir(nombre string) bool {
	i := d.indice(nombre)
	return i != -1 && d.entradas[i].EsDirectorio
}

// Add suma una entrada. Devuelve false si el nombre ya existe, es
// ilegal o la tabla está llena.
func (d *Directorio) Add(nombre string, sectorHeader int, esDirectorio bool) bool {
	if nombre == "" || len(nombre) > FileNameMaxLen {
		return false
	}
	if d.indice(nombre) != -1 {
		return false
	}

	for i := range d.entradas {
		if !d.entradas[i].EnUso {
			d.entradas[i] = EntradaDirectorio{
				EnUso:        true,
				Nombre:       nombre,
				SectorHeader: sectorHeader,
				EsDirectorio: esDirectorio,
			}
			return true
		}
	}
	return false // tabla llena
}

// Remove borra la entrada del nombre. Devuelve false si no existe.
func (d *Directorio) Remove(nombre string) bool {
	i := d.indice(nombre)
	if i == -1 {
		return false
	}
	d.entradas[i].EnUso = false
	d.entradas[i].Nombre = ""
	return true
}

// List imprime los nombres del directorio, marcando los subdirectorios
func (d *Directorio) List() {
	for _, entrada := range d.entradas {
		if !entrada.EnUso {
			continue
		}
		if entrada.EsDirectorio {
			fmt.Printf("DIR  %s\n", entrada.Nombre)
		} else {
			fmt.Printf("FILE %s\n", entrada.Nombre)
		}
	}
}

// Imprimir vuelca la tabla completa con sus headers, para depuración
func (d *Directorio) Imprimir() {
	fmt.Println("Contenido del directorio:")
	for _, entrada := range d.entradas {
		if !entrada.EnUso {
			continue
		}
		fmt.Printf("Nombre: %s, Sector: %d, Dir: %v\n",
			entrada.Nombre, entrada.SectorHeader, entrada.EsDirectorio)
		hdr := NuevoFileHeader()
		hdr.FetchFrom(entrada.SectorHeader)
		hdr.Imprimir()
	}
}
