package models

import "strings"

type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusValidated  ReportStatus = "validated"
	StatusInProgress ReportStatus = "in_progress"
	StatusResolved   ReportStatus = "resolved"
)

// AllStatuses lists statuses in workflow order.
var AllStatuses = []ReportStatus{
	StatusPending,
	StatusValidated,
	StatusInProgress,
	StatusResolved,
}

func (s ReportStatus) Valid() bool {
	switch s {
	case StatusPending, StatusValidated, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

func (s ReportStatus) String() string { return string(s) }

type DisasterType string

const (
	DisasterFlood      DisasterType = "banjir"
	DisasterEarthquake DisasterType = "gempa"
	DisasterFire       DisasterType = "kebakaran"
	DisasterLandslide  DisasterType = "longsor"
	DisasterTsunami    DisasterType = "tsunami"
	DisasterWindstorm  DisasterType = "angin_puting_beliung"
	DisasterEruption   DisasterType = "erupsi"
	DisasterDrought    DisasterType = "kekeringan"
	DisasterOther      DisasterType = "lainnya"
)

var AllDisasterTypes = []DisasterType{
	DisasterFlood,
	DisasterEarthquake,
	DisasterFire,
	DisasterLandslide,
	DisasterTsunami,
	DisasterWindstorm,
	DisasterEruption,
	DisasterDrought,
	DisasterOther,
}

func (d DisasterType) Valid() bool {
	for _, t := range AllDisasterTypes {
		if d == t {
			return true
		}
	}
	return false
}

// ParseDisasterType normalizes user input (case, surrounding spaces) and
// reports whether it names a known type.
func ParseDisasterType(s string) (DisasterType, bool) {
	d := DisasterType(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}
