// Package textview renders dashboards and city lists for the terminal.
package textview

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cityobservatory/cityobservatory/internal/archive"
	"github.com/cityobservatory/cityobservatory/internal/dashboard"
	"github.com/cityobservatory/cityobservatory/internal/location"
)

const rule = "────────────────────────────────────────"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Cities writes one row per location.
func Cities(w io.Writer, locs []location.Location) error {
	if len(locs) == 0 {
		_, err := fmt.Fprintln(w, "no matching cities")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tKEY\tNAME\tCOUNTRY\tLAT\tLON\tTIMEZONE")
	for _, l := range locs {
		key := l.Slug
		if key == "" {
			key = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.4f\t%.4f\t%s\n",
			l.ID, key, l.DisplayName(), l.Country, l.Lat, l.Lon, orDash(l.Timezone))
	}
	return tw.Flush()
}

// Dashboard writes the current weather, air quality and metrics of d.
func Dashboard(w io.Writer, d *dashboard.Dashboard) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  (%s, %s)\n", d.Location.DisplayName(), d.Range, d.LocalTime)
	b.WriteString(rule + "\n")
	if d.Stale {
		b.WriteString("! showing cached data, the provider is unavailable\n")
	}

	if wv := d.Weather; wv != nil {
		c := wv.Current
		fmt.Fprintf(&b, "天気      %s  %.1f°C (体感 %.1f°C)\n", wv.Condition.Label, c.Temperature, c.ApparentTemperature)
		fmt.Fprintf(&b, "湿度      %.0f%%   降水確率 %.0f%%\n", c.Humidity, c.PrecipitationProbability)
		fmt.Fprintf(&b, "風        %s %.1f m/s\n", wv.Wind.Label, c.WindSpeed)
		fmt.Fprintf(&b, "UV        %.1f %s\n", c.UVIndex, wv.UV.Label)
		if wv.Sunrise != "" && wv.Sunset != "" {
			fmt.Fprintf(&b, "日の出    %s  日の入り %s  (%s)\n", clock(wv.Sunrise), clock(wv.Sunset), wv.Sun.Label)
		}
	}

	if aq := d.AirQuality; aq != nil {
		fmt.Fprintf(&b, "大気      %s  PM2.5 %.1f  PM10 %.1f\n", aq.Label, aq.Current.PM25, aq.Current.PM10)
	}

	if m := d.Metrics; m != nil {
		fmt.Fprintf(&b, "快適度    %d/100  リスク %s\n", m.ComfortScore, m.OutdoorRisk.Label())
		if len(m.BestTimeSlots) > 0 {
			b.WriteString("おすすめ  ")
			for i, s := range m.BestTimeSlots {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%s-%s (%d)", clock(s.StartTime), clock(s.EndTime), s.Score)
			}
			b.WriteString("\n")
		}
	}

	for _, warning := range d.Warnings {
		fmt.Fprintf(&b, "! %s\n", warning)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Comparison writes both dashboards of c followed by the verdict. A side
// that could not be built is skipped and reported by its warning.
func Comparison(w io.Writer, c *dashboard.Comparison) error {
	for i, d := range []*dashboard.Dashboard{c.Left, c.Right} {
		if d == nil {
			continue
		}
		if i > 0 && c.Left != nil {
			fmt.Fprintln(w)
		}
		if err := Dashboard(w, d); err != nil {
			return err
		}
	}
	fmt.Fprintln(w, rule)
	for _, warning := range c.Warnings {
		fmt.Fprintf(w, "! %s\n", warning)
	}

	var verdict string
	switch {
	case c.Left == nil || c.Right == nil:
		verdict = "comparison incomplete"
	case c.Preferred == "left":
		verdict = fmt.Sprintf("%s is more comfortable by %d", c.Left.Location.DisplayName(), c.ComfortDelta)
	case c.Preferred == "right":
		verdict = fmt.Sprintf("%s is more comfortable by %d", c.Right.Location.DisplayName(), -c.ComfortDelta)
	default:
		verdict = "both cities are equally comfortable"
	}
	_, err := fmt.Fprintln(w, verdict)
	return err
}

// History writes one row per archived record.
func History(w io.Writer, records []*archive.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no history recorded")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "RECORDED\tOBSERVED\tTEMP\tPM2.5\tCOMFORT\tRISK\tAIR")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\t%d\t%s\t%s\n",
			r.RecordedAt.UTC().Format("2006-01-02 15:04"), r.ObservedAt,
			r.Temperature, r.PM25, r.ComfortScore, r.OutdoorRisk.Label(), r.AirQuality.Label())
	}
	return tw.Flush()
}

// clock returns the HH:MM part of a local ISO timestamp.
func clock(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i >= 0 && len(ts) >= i+6 {
		return ts[i+1 : i+6]
	}
	return ts
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
