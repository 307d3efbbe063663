package entity

// Retailer representa una cadena minorista del catálogo maestro.
type Retailer struct {
	ID       int64
	Key      string // clave corta de máquina, ej. "whole foods"
	Name     string // nombre canónico, ej. "Whole Foods"
	Division string // agrupación opcional (National, Southeast, ...)
}
