package extract

import "strings"

// Brand maps a set of receipt aliases to one canonical station identity
// with its display color and icon.
type Brand struct {
	CanonicalName string
	ColorHex      string
	Icon          string
	Aliases       []string
}

// Fallback style for stations no brand alias matches.
const (
	DefaultColorHex = "#007AFF"
	DefaultIcon     = "bolt.fill"
)

// brandTable is evaluated top to bottom, first matching alias wins.
// Not user-editable at runtime.
var brandTable = []Brand{
	{
		CanonicalName: "特斯拉充电站",
		ColorHex:      "#FF9500",
		Icon:          "bolt.car.fill",
		Aliases:       []string{"特斯拉", "Tesla", "TESLA", "tesla"},
	},
	{
		CanonicalName: "小鹏充电站",
		ColorHex:      "#007AFF",
		Icon:          "bolt.car",
		Aliases:       []string{"小鹏", "XPeng", "XPENG", "xpeng"},
	},
	{
		CanonicalName: "蔚来充电站",
		ColorHex:      "#34C759",
		Icon:          "bolt.batteryblock",
		Aliases:       []string{"蔚来", "NIO", "nio"},
	},
	{
		CanonicalName: "国家电网充电站",
		ColorHex:      "#AF52DE",
		Icon:          "bolt.circle",
		Aliases:       []string{"国家电网", "国网", "State Grid"},
	},
}

// Brands returns the configured brand table in evaluation order.
func Brands() []Brand {
	out := make([]Brand, len(brandTable))
	copy(out, brandTable)
	return out
}

// MatchBrand returns the first brand with an alias contained in line.
func MatchBrand(line string) (Brand, bool) {
	for _, b := range brandTable {
		for _, alias := range b.Aliases {
			if strings.Contains(line, alias) {
				return b, true
			}
		}
	}
	return Brand{}, false
}

// BrandStyle returns the color and icon for a station name, using the
// brand table when an alias matches and the generic fallback otherwise.
func BrandStyle(name string) (colorHex, icon string) {
	if b, ok := MatchBrand(name); ok {
		return b.ColorHex, b.Icon
	}
	return DefaultColorHex, DefaultIcon
}
