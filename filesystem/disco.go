package filesystem

import (
	"fmt"

	"github.com/goose-lang/goose/machine/disk"

	"github.com/sisoputnfrba/tp-2025-2c-NachOS/kernel"
	"github.com/sisoputnfrba/tp-2025-2c-NachOS/utils"
)

// TamSector es la unidad de direccionamiento y E/S del disco. Coincide
// con el tamaño de bloque del dispositivo.
const TamSector = int(disk.BlockSize)

// Cantidad de sectores por defecto del disco simulado
const NumSectoresPorDefecto = 1024

// disco instalado para toda la vida del file system
var discoGlobal *DiscoSincronizado

// DiscoSincronizado envuelve el dispositivo de bloques con un lock del
// kernel: las operaciones de sector son atómicas entre hilos del kernel.
type DiscoSincronizado struct {
	dispositivo disk.Disk
	lock        *kernel.Lock
	numSectores int
}

// NuevoDiscoEnMemoria crea un disco volátil, útil para tests y corridas
// sin persistencia
func NuevoDiscoEnMemoria(numSectores int) *DiscoSincronizado {
	return &DiscoSincronizado{
		dispositivo: disk.NewMemDisk(uint64(numSectores)),
		lock:        kernel.NuevoLock("lock disco"),
		numSectores: numSectores,
	}
}

// NuevoDiscoEnArchivo crea o reabre un disco respaldado en un archivo
// del host
func NuevoDiscoEnArchivo(ruta string, numSectores int) (*DiscoSincronizado, error) {
	dispositivo, err := disk.NewFileDisk(ruta, uint64(numSectores))
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir el disco %s: %w", ruta, err)
	}
	return &DiscoSincronizado{
		dispositivo: dispositivo,
		lock:        kernel.NuevoLock("lock disco"),
		numSectores: numSectores,
	}, nil
}

// InstalarDisco fija el disco que usará el file system
func InstalarDisco(d *DiscoSincronizado) {
	discoGlobal = d
}

func DiscoInstalado() *DiscoSincronizado {
	return discoGlobal
}

func (d *DiscoSincronizado) NumSectores() int {
	return d.numSectores
}

// LeerSector copia el contenido del sector al buffer
func (d *DiscoSincronizado) LeerSector(sector int, buf []byte) {
	utils.Assert(sector >= 0 && sector < d.numSectores, "lectura del sector ilegal %d", sector)
	utils.Assert(len(buf) >= TamSector, "buffer de lectura de %d bytes", len(buf))

	d.lock.Acquire()
	bloque := d.dispositivo.Read(uint64(sector))
	copy(buf, bloque)
	kernel.K.Stats.LecturasDisco++
	d.lock.Release()
}

// EscribirSector vuelca el buffer al sector
func (d *DiscoSincronizado) EscribirSector(sector int, buf []byte) {
	utils.Assert(sector >= 0 && sector < d.numSectores, "escritura del sector ilegal %d", sector)
	utils.Assert(len(buf) >= TamSector, "buffer de escritura de %d bytes", len(buf))

	bloque := make(disk.Block, TamSector)
	copy(bloque, buf)

	d.lock.Acquire()
	d.dispositivo.Write(uint64(sector), bloque)
	kernel.K.Stats.EscriturasDisco++
	d.lock.Release()
}
