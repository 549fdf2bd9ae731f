package filesystem

import "github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"

// OpenFile da acceso por bytes a un archivo ya ubicado en el disco.
// Mantiene una posición de lectura/escritura propia; los archivos no
// crecen más allá del tamaño fijado al crearlos.
type OpenFile struct {
	hdr          *FileHeader
	posicion     int
	sectorHeader int
}

// NuevoOpenFile trae el header del sector indicado y deja el archivo
// posicionado al principio
func NuevoOpenFile(sectorHeader int) *OpenFile {
	a := &OpenFile{
		hdr:          NuevoFileHeader(),
		sectorHeader: sectorHeader,
	}
	a.hdr.FetchFrom(sectorHeader)
	return a
}

func (a *OpenFile) SectorHeader() int {
	return a.sectorHeader
}

func (a *OpenFile) Seek(posicion int) {
	a.posicion = posicion
}

func (a *OpenFile) Posicion() int {
	return a.posicion
}

func (a *OpenFile) Length() int {
	return a.hdr.FileLength()
}

// Read lee desde la posición actual y la avanza
func (a *OpenFile) Read(buf []byte) int {
	leidos := a.ReadAt(buf, a.posicion)
	a.posicion += leidos
	return leidos
}

// Write escribe desde la posición actual y la avanza
func (a *OpenFile) Write(buf []byte) int {
	escritos := a.WriteAt(buf, a.posicion)
	a.posicion += escritos
	return escritos
}

// ReadAt lee hasta len(buf) bytes a partir de posicion. Leer más allá
// del final devuelve menos bytes que los pedidos, incluso cero; eso no
// es un error.
func (a *OpenFile) ReadAt(buf []byte, posicion int) int {
	longitud := a.hdr.FileLength()
	if posicion < 0 || posicion >= longitud || len(buf) == 0 {
		return 0
	}

	cantidad := utils.Min(len(buf), longitud-posicion)
	primerSector := posicion / TamSector
	ultimoSector := (posicion + cantidad - 1) / TamSector

	tmp := make([]byte, (ultimoSector-primerSector+1)*TamSector)
	for i := primerSector; i <= ultimoSector; i++ {
		discoGlobal.LeerSector(a.hdr.ByteToSector(i*TamSector), tmp[(i-primerSector)*TamSector:])
	}

	copy(buf[:cantidad], tmp[posicion-primerSector*TamSector:])
	return cantidad
}

// WriteAt escribe hasta len(buf) bytes a partir de posicion, sin pasar
// el tamaño del archivo. Los sectores parciales de las puntas se
// preservan con lectura previa.
func (a *OpenFile) WriteAt(buf []byte, posicion int) int {
	longitud := a.hdr.FileLength()
	if posicion < 0 || posicion >= longitud || len(buf) == 0 {
		return 0
	}

	cantidad := utils.Min(len(buf), longitud-posicion)
	primerSector := posicion / TamSector
	ultimoSector := (posicion + cantidad - 1) / TamSector

	tmp := make([]byte, (ultimoSector-primerSector+1)*TamSector)

	primeraAlineada := posicion == primerSector*TamSector
	ultimaAlineada := posicion+cantidad == (ultimoSector+1)*TamSector
	if !primeraAlineada {
		discoGlobal.LeerSector(a.hdr.ByteToSector(primerSector*TamSector), tmp)
	}
	if !ultimaAlineada {
		discoGlobal.LeerSector(a.hdr.ByteToSector(ultimoSector*TamSector),
			tmp[(ultimoSector-primerSector)*TamSector:])
	}

	copy(tmp[posicion-primerSector*TamSector:], buf[:cantidad])

	for i := primerSector; i <= ultimoSector; i++ {
		discoGlobal.EscribirSector(a.hdr.ByteToSector(i*TamSector), tmp[(i-primerSector)*TamSector:])
	}
	return cantidad
}
