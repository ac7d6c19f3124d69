package geometry

import (
	gomath "math"
)

// BuildEdgeIndices derives the edge index list for a triangle mesh.
// An edge is emitted when it borders a single triangle (mesh boundary)
// or when the normals of its two triangles diverge by more than
// thresholdDeg degrees. Coincident vertices are welded first so seams
// between duplicated vertices do not read as boundaries.
func BuildEdgeIndices(positions []float32, indices []uint32, thresholdDeg float32) []uint32 {
	if len(indices) < 3 {
		return nil
	}

	remap := weldVertices(positions)

	type edgeInfo struct {
		a, b  uint32 // original vertex indices, first encounter
		face1 int
		face2 int
	}

	edges := make(map[[2]uint32]*edgeInfo)
	var order [][2]uint32 // map iteration order is random; keep insertion order

	normals := make([][3]float32, len(indices)/3)
	for f := 0; f < len(normals); f++ {
		i0 := indices[f*3]
		i1 := indices[f*3+1]
		i2 := indices[f*3+2]
		normals[f] = faceNormal(positions, i0, i1, i2)

		for e := 0; e < 3; e++ {
			va := indices[f*3+e]
			vb := indices[f*3+(e+1)%3]
			ka := remap[va]
			kb := remap[vb]
			if ka == kb {
				continue // degenerate edge
			}
			key := [2]uint32{ka, kb}
			if kb < ka {
				key = [2]uint32{kb, ka}
			}
			if info, ok := edges[key]; ok {
				if info.face2 < 0 {
					info.face2 = f
				}
				continue
			}
			edges[key] = &edgeInfo{a: va, b: vb, face1: f, face2: -1}
			order = append(order, key)
		}
	}

	thresholdDot := float32(gomath.Cos(float64(thresholdDeg) * gomath.Pi / 180))

	var out []uint32
	for _, key := range order {
		info := edges[key]
		if info.face2 < 0 {
			// Mesh boundary
			out = append(out, info.a, info.b)
			continue
		}
		if dot3(normals[info.face1], normals[info.face2]) < thresholdDot {
			out = append(out, info.a, info.b)
		}
	}
	return out
}

// weldVertices maps each vertex index to the first index sharing its
// exact position.
func weldVertices(positions []float32) []uint32 {
	count := len(positions) / 3
	seen := make(map[[3]float32]uint32, count)
	remap := make([]uint32, count)
	for i := 0; i < count; i++ {
		key := [3]float32{positions[i*3], positions[i*3+1], positions[i*3+2]}
		if rep, ok := seen[key]; ok {
			remap[i] = rep
		} else {
			seen[key] = uint32(i)
			remap[i] = uint32(i)
		}
	}
	return remap
}

func faceNormal(positions []float32, i0, i1, i2 uint32) [3]float32 {
	ax := positions[i0*3]
	ay := positions[i0*3+1]
	az := positions[i0*3+2]
	e1 := [3]float32{positions[i1*3] - ax, positions[i1*3+1] - ay, positions[i1*3+2] - az}
	e2 := [3]float32{positions[i2*3] - ax, positions[i2*3+1] - ay, positions[i2*3+2] - az}

	n := [3]float32{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	length := sqrtf(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if length < 1e-7 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{n[0] / length, n[1] / length, n[2] / length}
}

func dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func sqrtf(x float32) float32 {
	return float32(gomath.Sqrt(float64(x)))
}
