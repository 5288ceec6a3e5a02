package pathstore

// Decoded carries a loaded value along with presence metadata.
// Present is false when the load produced no value at all (nil input for a
// record field, for example).
type Decoded struct {
	Value    any
	Present  bool
	Presence PresenceMap
}

// PresenceOpt configures presence collection for metadata-aware loads.
type PresenceOpt struct {
	Collect bool
	Include []string
	Exclude []string
	Intern  bool
}

// Apply filters pm according to the options. It returns nil when collection
// is disabled.
func (o PresenceOpt) Apply(pm PresenceMap) PresenceMap {
	if !o.Collect {
		return nil
	}
	return pm.Filter(o.Include, o.Exclude, o.Intern)
}
