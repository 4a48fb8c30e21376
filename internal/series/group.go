package series

// BandGroup collects the crops at band index i across the whole series, in
// series order. Crop sets with i or fewer entries are skipped: a scene
// missing a band contributes nothing to that band's group, and never
// corrupts another band's group.
func BandGroup(ts TimeSeries, i int) []string {
	var group []string
	for _, crops := range ts {
		if len(crops) > i {
			group = append(group, crops[i])
		}
	}
	return group
}
