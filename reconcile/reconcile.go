// Package reconcile merges a freshly fetched snapshot with the operator's
// retained selections and derives the display strings and color bands.
package reconcile

import (
	"time"

	"weather-panel/models"

	"golang.org/x/text/language"
)

// Input is everything one reconciliation needs. Now is captured once at the
// start of the cycle so labels, the date line and notifications agree.
type Input struct {
	Now       time.Time
	Snapshot  models.Snapshot // Forecast must hold models.DayCount entries
	PrevLabel string
	PrevUnits models.UnitSystem
	Prev      *ViewModel // nil before the first successful cycle
}

// Result is the next renderable state
type Result struct {
	View         ViewModel
	Index        int
	Changes      []Change
	UnitsChanged bool
}

// Reconciler is not safe for concurrent use; the driver loop owns it.
type Reconciler struct {
	words *wordCapitalizer
}

// New returns a reconciler capitalizing descriptions with tag's casing rules
func New(tag language.Tag) *Reconciler {
	return &Reconciler{words: newWordCapitalizer(tag)}
}

// Reconcile produces the view model for the retained day selection
func (r *Reconciler) Reconcile(in Input) Result {
	snap := in.Snapshot
	units := snap.Units

	labels := DayLabels(in.Now, models.DayCount)
	index := ResolveSelection(labels, in.PrevLabel)
	day := snap.Forecast[index]

	vm := ViewModel{
		Labels:   labels,
		Selected: index,
		Units:    units,
		City:     snap.Current.City,
		High:     Degrees(day.MaxTemp),
		Low:      Degrees(day.MinTemp),
		Date:     LongDate(in.Now),
		HighBand: BandFor(day.MaxTemp, units),
		LowBand:  BandFor(day.MinTemp, units),
	}

	var (
		temp, feels, humidity, wind float64
		icon, description           string
	)
	if index == 0 {
		cur := snap.Current
		temp, feels, humidity, wind = cur.Temp, cur.FeelsLike, cur.HumidityPct, cur.WindSpeed
		icon, description = cur.Icon, cur.Description
	} else {
		temp, feels, humidity, wind = day.DayTemp, day.FeelsLike, day.HumidityPct, day.WindSpeed
		icon, description = day.Icon, day.Description
	}

	vm.Temp = Degrees(temp)
	vm.FeelsLike = "Feels like: " + Degrees(feels)
	vm.Humidity = Percent(humidity)
	vm.Wind = Speed(wind, units.WindSuffix())
	vm.IconURL = models.IconURL(icon)
	vm.Description = r.words.String(description)
	vm.TempBand = BandFor(temp, units)

	return Result{
		View:         vm,
		Index:        index,
		Changes:      Diff(in.Prev, vm, in.Now),
		UnitsChanged: in.Prev != nil && in.PrevUnits != units,
	}
}

// Diff lists the notifiable fields of next whose display string differs from
// prev. Every field counts as changed when prev is nil.
func Diff(prev *ViewModel, next ViewModel, at time.Time) []Change {
	var changes []Change
	for _, f := range Fields() {
		value := next.Value(f)
		if prev != nil && prev.Value(f) == value {
			continue
		}
		changes = append(changes, Change{At: at, Field: f, Value: value})
	}
	return changes
}
