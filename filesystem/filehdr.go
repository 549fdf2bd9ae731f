package filesystem

import (
	"encoding/binary"
	"fmt"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

// El header ocupa exactamente un sector: tres int32 de metadatos y el
// resto punteros directos a sectores de datos
const (
	NumDirect   = (TamSector - 12) / 4
	MaxFileSize = NumDirect * TamSector
)

// FileHeader es el i-node: mapea offsets del archivo a sectores del
// disco. Cuando el archivo supera MaxFileSize los headers se encadenan
// por proximoHeaderSector.
type FileHeader struct {
	numBytes            int32 // bytes cubiertos por ESTE eslabón
	numSectores         int32
	proximoHeaderSector int32
	sectoresDatos       [NumDirect]int32

	proximoHeader *FileHeader
}

func NuevoFileHeader() *FileHeader {
	return &FileHeader{
		numBytes:            -1,
		numSectores:         -1,
		proximoHeaderSector: -1,
	}
}

// Allocate reserva en el free map los sectores de datos del archivo y,
// si hace falta, el sector y los datos del próximo eslabón. Devuelve
// false si el disco no alcanza; en ese caso el llamador debe invocar
// Deallocate sobre el header parcialmente armado.
func (h *FileHeader) Allocate(freeMap *Bitmap, tamArchivo int) bool {
	totalSectores := utils.DivRoundUp(tamArchivo, TamSector)
	h.numBytes = int32(utils.Min(tamArchivo, MaxFileSize))
	h.numSectores = int32(utils.Min(totalSectores, NumDirect))

	if freeMap.NumClear() < int(h.numSectores) {
		h.numSectores = 0
		return false
	}

	for i := 0; i < int(h.numSectores); i++ {
		sector := freeMap.FindAndSet()
		if sector == -1 {
			// Deallocate sólo debe devolver lo efectivamente reservado
			h.numSectores = int32(i)
			return false
		}
		h.sectoresDatos[i] = int32(sector)
	}

	if totalSectores > NumDirect {
		siguiente := freeMap.FindAndSet()
		if siguiente == -1 {
			return false
		}
		h.proximoHeaderSector = int32(siguiente)
		h.proximoHeader = NuevoFileHeader()

		utils.Traza("Reservado el próximo eslabón del header: %d", siguiente)
		return h.proximoHeader.Allocate(freeMap, tamArchivo-MaxFileSize)
	}
	return true
}

// Deallocate devuelve al free map todos los sectores del archivo,
// recorriendo la cadena completa. Un sector ya libre es un invariante
// roto y aborta.
func (h *FileHeader) Deallocate(freeMap *Bitmap) {
	if h.proximoHeader != nil {
		utils.Traza("Liberando el próximo eslabón del header: %d", h.proximoHeaderSector)
		h.proximoHeader.Deallocate(freeMap)
		if h.proximoHeaderSector != -1 {
			freeMap.Clear(int(h.proximoHeaderSector))
		}
	}

	for i := 0; i < int(h.numSectores); i++ {
		sector := int(h.sectoresDatos[i])
		utils.Assert(freeMap.Test(sector), "sector %d liberado dos veces", sector)
		freeMap.Clear(sector)
	}
}

// FetchFrom materializa el header (y toda su cadena) desde disco
func (h *FileHeader) FetchFrom(sector int) {
	buf := make([]byte, TamSector)
	discoGlobal.LeerSector(sector, buf)

	h.numBytes = int32(binary.LittleEndian.Uint32(buf[0:]))
	h.numSectores = int32(binary.LittleEndian.Uint32(buf[4:]))
	h.proximoHeaderSector = int32(binary.LittleEndian.Uint32(buf[8:]))
	for i := 0; i < int(h.numSectores); i++ {
		h.sectoresDatos[i] = int32(binary.LittleEndian.Uint32(buf[12+4*i:]))
	}

	if h.proximoHeaderSector != -1 {
		utils.Traza("Siguiendo la cadena de headers: %d", h.proximoHeaderSector)
		h.proximoHeader = NuevoFileHeader()
		h.proximoHeader.FetchFrom(int(h.proximoHeaderSector))
	}
}

// WriteBack persiste el header (y toda su cadena) a disco
func (h *FileHeader) WriteBack(sector int) {
	buf := make([]byte, TamSector)

	binary.LittleEndian.PutUint32(buf[0:], uint32(h.numBytes))
	binary.LittleEndian.PutUint32(buf[4:], uint32(h.numSectores))
	binary.LittleEndian.PutUint32(buf[8:], uint32(h.proximoHeaderSector))
	for i := 0; i < int(h.numSectores); i++ {
		binary.LittleEndian.PutUint32(buf[12+4*i:], uint32(h.sectoresDatos[i]))
	}

	discoGlobal.EscribirSector(sector, buf)

	if h.proximoHeaderSector != -1 {
		utils.Traza("Persistiendo la cadena de headers: %d", h.proximoHeaderSector)
		h.proximoHeader.WriteBack(int(h.proximoHeaderSector))
	}
}

// ByteToSector traduce un offset del archivo al sector que lo guarda
func (h *FileHeader) ByteToSector(offset int) int {
	if offset >= MaxFileSize {
		return h.proximoHeader.ByteToSector(offset - MaxFileSize)
	}
	return int(h.sectoresDatos[offset/TamSector])
}

// FileLength suma los bytes de toda la cadena
func (h *FileHeader) FileLength() int {
	if h.proximoHeader != nil {
		return int(h.numBytes) + h.proximoHeader.FileLength()
	}
	return int(h.numBytes)
}

// Imprimir vuelca el header y el contenido de sus sectores de datos
func (h *FileHeader) Imprimir() {
	fmt.Printf("Contenido del header. Tamaño: %d. Sectores:\n", h.numBytes)
	for i := 0; i < int(h.numSectores); i++ {
		fmt.Printf("%d ", h.sectoresDatos[i])
	}
	fmt.Println("\nContenido del archivo:")

	datos := make([]byte, TamSector)
	impresos := 0
	for i := 0; i < int(h.numSectores); i++ {
		discoGlobal.LeerSector(int(h.sectoresDatos[i]), datos)
		for j := 0; j < TamSector && impresos < int(h.numBytes); j++ {
			if datos[j] >= 0x20 && datos[j] <= 0x7e {
				fmt.Printf("%c", datos[j])
			} else {
				fmt.Printf("\\%x", datos[j])
			}
			impresos++
		}
		fmt.Println()
	}

	if h.proximoHeader != nil {
		h.proximoHeader.Imprimir()
	}
}
