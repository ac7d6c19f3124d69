package lighting

import "math"

// SunDirection converts longitude/latitude angles to a light direction
// vector. Longitude is rotation around the Y axis (0-360), latitude is
// elevation from the horizon (0-90). Returns a normalized direction
// pointing from the scene toward the sun; negate it for a DirLight.
func SunDirection(longitude, latitude float32) [3]float32 {
	lonRad := float64(longitude) * math.Pi / 180.0
	latRad := float64(latitude) * math.Pi / 180.0

	x := float32(math.Cos(latRad) * math.Sin(lonRad))
	y := float32(math.Sin(latRad))
	z := float32(math.Cos(latRad) * math.Cos(lonRad))

	return [3]float32{x, y, z}
}

// SunRig returns a rig lit by a sun at the given sky position: a warm
// key light from the sun plus a cool sky fill from the opposite side.
// The light count matches DefaultRig, so swapping between them does
// not force a shader rebuild.
func SunRig(longitude, latitude float32) *Rig {
	sun := SunDirection(longitude, latitude)
	r := &Rig{
		Ambient:          [3]float32{1.0, 1.0, 1.0},
		AmbientIntensity: 0.35,
	}
	r.Add(DirLight{
		Dir:       [3]float32{-sun[0], -sun[1], -sun[2]},
		Color:     [3]float32{1.0, 0.98, 0.92},
		Intensity: 1.0,
	})
	r.Add(DirLight{
		Dir:       [3]float32{sun[0], -0.2, sun[2]},
		Color:     [3]float32{0.75, 0.82, 1.0},
		Intensity: 0.4,
	})
	return r
}
