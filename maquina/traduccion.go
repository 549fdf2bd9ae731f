package maquina

import "github.com/goose-lang/goose/machine/disk"

// El tamaño de página coincide con el tamaño de sector del disco, así
// una página se carga con una única lectura de sector.
const TamPagina = int(disk.BlockSize)

// EntradaTraduccion es una traducción página virtual → marco físico.
// La misma estructura vive en las tablas de páginas y en el TLB.
type EntradaTraduccion struct {
	PaginaVirtual int
	MarcoFisico   int
	Valida        bool
	SoloLectura   bool
	Uso           bool
	Sucia         bool
}

// EspacioUsuario es el contrato que el kernel y el core map le exigen a
// un espacio de direcciones de usuario. Lo implementa memoria.EspacioDirecciones.
type EspacioUsuario interface {
	SaveState()
	RestoreState()

	// LoadPageFromDisk trae la página vpn al marco indicado y devuelve
	// la entrada de la tabla de páginas ya actualizada
	LoadPageFromDisk(vpn int, marco int) *EntradaTraduccion

	// SyncPageAttributes copia los atributos (uso/sucia) de una entrada
	// de TLB a la tabla de páginas antes de expulsar la página
	SyncPageAttributes(vpn int, entrada *EntradaTraduccion)

	// WritePageToDisk reescribe la página al respaldo si está sucia;
	// es el camino de swap-out cuando el pool de marcos se agota
	WritePageToDisk(vpn int, marco int)

	// GetPageTableEntry devuelve la entrada de la tabla de páginas del
	// vpn, o nil si está fuera del espacio
	GetPageTableEntry(vpn int) *EntradaTraduccion
}
