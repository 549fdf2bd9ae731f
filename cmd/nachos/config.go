package main

// NachosConfig define la configuración del simulador
type NachosConfig struct {
	LogLevel          string  `json:"LOG_LEVEL"`
	Politica          string  `json:"ALGORITMO_PLANIFICACION"` // RR | FCFS | PRIORIDADES | SJF
	Desalojo          bool    `json:"DESALOJO"`
	EstimacionInicial float64 `json:"ESTIMACION_INICIAL"`

	CantidadMarcos   int    `json:"CANTIDAD_MARCOS"`
	ReemplazoTLB     string `json:"REEMPLAZO_TLB"`     // FIFO | LRU
	ReemplazoPaginas string `json:"REEMPLAZO_PAGINAS"` // FIFO | LRU

	CantidadSectores int    `json:"CANTIDAD_SECTORES"`
	RutaDisco        string `json:"RUTA_DISCO"` // vacío: disco en memoria
}

func configPorDefecto() *NachosConfig {
	return &NachosConfig{
		LogLevel:          "info",
		Politica:          "RR",
		Desalojo:          false,
		EstimacionInicial: 10,
		CantidadMarcos:    32,
		ReemplazoTLB:      "LRU",
		ReemplazoPaginas:  "FIFO",
		CantidadSectores:  1024,
	}
}
