// Package catalog contiene el catálogo maestro inicial de productos y cadenas.
// Se siembra una sola vez cuando las tablas están vacías; el orden de las listas es el orden de catálogo.
package catalog

import "github.com/jeffperkel/CPG-POD-TEST/internal/domain/entity"

// DefaultProducts catálogo inicial de productos (nombre canónico + UPC).
var DefaultProducts = []entity.Product{
	{Name: "18oz quaker oats", SKU: "03000001041"},
	{Name: "12oz honey nut cheerios", SKU: "01600027526"},
	{Name: "12oz cheerios", SKU: "01600027525"},
	{Name: "family size oreos", SKU: "04400003327"},
	{Name: "10-pack coke zero", SKU: "04900003075"},
	{Name: "doritos nacho cheese 9.75oz", SKU: "02840009089"},
	{Name: "tostitos scoops 10oz", SKU: "02840006797"},
	{Name: "pepsi 12-pack", SKU: "01200080994"},
	{Name: "gatorade lemon-lime 28oz", SKU: "05200033812"},
	{Name: "tropicana orange juice 52oz", SKU: "04850000574"},
	{Name: "starbucks frap vanilla 4-pack", SKU: "01200081321"},
	{Name: "ben & jerrys chocolate fudge brownie", SKU: "07684010129"},
	{Name: "haagen-dazs vanilla 14oz", SKU: "07457002100"},
	{Name: "diGiorno rising crust pepperoni pizza", SKU: "07192100613"},
	{Name: "tide pods 3-in-1 72ct", SKU: "03700087535"},
	{Name: "clorox disinfecting wipes 75ct", SKU: "04460030623"},
	{Name: "colgate total toothpaste 4.8oz", SKU: "03500052020"},
	{Name: "kraft mac & cheese 7.25oz", SKU: "02100065883"},
	{Name: "heinz tomato ketchup 32oz", SKU: "01300000046"},
	{Name: "campbells chicken noodle soup", SKU: "05100001251"},
	{Name: "barilla spaghetti 1lb", SKU: "07680850001"},
	{Name: "yoplait strawberry yogurt 6oz", SKU: "07047000300"},
	{Name: "philadelphia cream cheese 8oz", SKU: "02100061221"},
	{Name: "kelloggs frosted flakes 13.5oz", SKU: "03800020108"},
	{Name: "pampers swaddlers diapers size 1", SKU: "03700074301"},
}

// DefaultRetailers catálogo inicial de cadenas (clave, nombre y división).
var DefaultRetailers = []entity.Retailer{
	{Key: "walmart", Name: "Walmart", Division: "National"},
	{Key: "target", Name: "Target", Division: "National"},
	{Key: "kroger", Name: "Kroger", Division: "National"},
	{Key: "costco", Name: "Costco", Division: "National"},
	{Key: "whole foods", Name: "Whole Foods", Division: "National"},
	{Key: "aldi", Name: "Aldi", Division: "National"},
	{Key: "publix", Name: "Publix", Division: "Southeast"},
	{Key: "h-e-b", Name: "H-E-B", Division: "Southwest"},
	{Key: "safeway", Name: "Safeway", Division: "West"},
	{Key: "albertsons", Name: "Albertsons", Division: "West"},
	{Key: "wegmans", Name: "Wegmans", Division: "Northeast"},
	{Key: "stop & shop", Name: "Stop & Shop", Division: "Northeast"},
	{Key: "sprouts", Name: "Sprouts", Division: "National"},
	{Key: "7-eleven", Name: "7-Eleven", Division: "Convenience"},
}
