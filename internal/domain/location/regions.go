package location

import "sort"

// Region describes the commutable neighbourhood of an anchor city.
type Region struct {
	Name   string
	Nearby []string
}

// regionTable maps anchor cities to their region. It is built once at package
// init and never mutated; readers get copies.
var regionTable = map[string]Region{ //nolint:gochecknoglobals // read-only process-wide table
	"London": {
		Name:   "South East England",
		Nearby: []string{"Reading", "Oxford", "Brighton", "Cambridge", "Guildford", "Watford", "St Albans"},
	},
	"Manchester": {
		Name:   "North West England",
		Nearby: []string{"Liverpool", "Leeds", "Sheffield", "Bolton", "Salford", "Stockport"},
	},
	"Birmingham": {
		Name:   "Midlands",
		Nearby: []string{"Coventry", "Wolverhampton", "Leicester", "Nottingham", "Solihull", "West Bromwich"},
	},
	"Edinburgh": {
		Name:   "Scotland",
		Nearby: []string{"Glasgow", "Dundee", "Aberdeen", "Stirling"},
	},
	"Bristol": {
		Name:   "South West England",
		Nearby: []string{"Bath", "Cardiff", "Exeter", "Gloucester"},
	},
	"Leeds": {
		Name:   "Yorkshire",
		Nearby: []string{"Manchester", "Sheffield", "York", "Bradford", "Hull"},
	},
	"Newcastle": {
		Name:   "North East England",
		Nearby: []string{"Sunderland", "Durham", "Middlesbrough"},
	},
	"Cardiff": {
		Name:   "Wales",
		Nearby: []string{"Bristol", "Swansea", "Newport"},
	},
}

// LookupRegion returns the region anchored at city. The key must match exactly.
func LookupRegion(city string) (Region, bool) {
	r, ok := regionTable[city]
	if !ok {
		return Region{}, false
	}
	return Region{Name: r.Name, Nearby: append([]string(nil), r.Nearby...)}, true
}

// AnchorCities lists the cities that have a region entry, sorted.
func AnchorCities() []string {
	out := make([]string, 0, len(regionTable))
	for city := range regionTable {
		out = append(out, city)
	}
	sort.Strings(out)
	return out
}
