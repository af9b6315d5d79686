package sequencer

import "time"

// TickPeriod is the fixed interval between Advance calls
const TickPeriod = 10 * time.Millisecond

// IdleMask keeps the attractor motor running between shows
const IdleMask = Attractor

// Show returns the prop's built-in animation chain
func Show() *Catalog {
	return show
}

// Durations are in ticks; comments give the cumulative show time at 10ms
// per tick.
var show = MustCatalog(IdleMask,
	Sequence{
		Name: "approach",
		Steps: []Step{
			{11, Attractor | Audio},
			{255, Attractor | Fog},
			{255, Attractor | Fog},
			{210, Attractor | Fog},
			{50, Attractor | Eyes},
			{10, Attractor},
			{20, Attractor | Eyes},
			{10, Blacklight},
			{10, Blacklight | Eyes},
			{15, Blacklight},
			{125, Blacklight | Eyes}, // 9.71s
		},
	},
	Sequence{
		Name: "stare",
		Steps: []Step{
			{220, Blacklight},
			{20, Eyes},
			{10, None},
			{10, Eyes},
			{10, None},
			{20, Eyes},
			{10, None},
			{30, Eyes},
			{70, Eyes | Strobe},
			{11, Strobe},
			{20, Eyes | Strobe},
			{10, Strobe},
			{70, Eyes | Strobe}, // 14.82s
		},
	},
	Sequence{
		Name: "frenzy",
		Steps: []Step{
			{205, Strobe | Eyes},
			{165, Strobe},
			{30, Eyes | Strobe},
			{10, Strobe},
			{20, Blacklight | Eyes | Strobe},
			{10, Blacklight | Strobe},
			{15, Blacklight | Eyes | Strobe},
			{10, Blacklight | Strobe},
			{30, Blacklight | Eyes | Strobe},
			{10, Blacklight | Strobe},
			{10, Blacklight | Eyes | Strobe},
			{10, Blacklight | Strobe},
			{10, Blacklight | Eyes | Strobe},
			{10, Blacklight | Strobe},
			{10, Blacklight | Eyes | Strobe},
			{10, Blacklight | Strobe},
			{30, Blacklight | Eyes | Strobe},
			{255, Blacklight | Eyes},
			{255, Blacklight}, // 25.87s
		},
	},
)
