package recordio

import (
	"encoding/csv"
	"io"
	"iter"
	"strconv"

	da "github.com/uozuAho/vicroads-graph-search/pkg/datastructure"
)

var csvHeader = []string{"declared_name", "lat", "lon"}

// WriteCSV writes one row per point. placemarks without points leave no row.
func WriteCSV(w io.Writer, records iter.Seq[da.Placemark]) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}
	count := 0
	for p := range records {
		for _, pt := range p.Points {
			row := []string{
				p.DeclaredName,
				strconv.FormatFloat(pt.Lat, 'f', -1, 64),
				strconv.FormatFloat(pt.Lon, 'f', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return count, err
			}
		}
		count++
	}
	cw.Flush()
	return count, cw.Error()
}
