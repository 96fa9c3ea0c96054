package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ssao-engine/core"
	"ssao-engine/math"
)

// objFace is an already-triangulated face (three vertex references).
type objFace struct {
	vIdx, vtIdx, vnIdx [3]int // 0-based position / UV / normal indices (-1 = absent)
}

type objObject struct {
	name    string
	matName string
	faces   []objFace
}

// LoadOBJ parses a Wavefront .obj file and returns one Mesh per object/group.
// A companion .mtl file is loaded if referenced via "mtllib".
func LoadOBJ(path string) ([]*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	meshes, err := ParseOBJ(f, func(name string) (map[string]*Material, error) {
		mf, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		defer mf.Close()
		return ParseMTL(mf)
	})
	if err != nil {
		return nil, fmt.Errorf("obj %q: %w", path, err)
	}
	return meshes, nil
}

// ParseOBJ reads OBJ text from r. mtllib is called for each "mtllib"
// directive and may be nil.
func ParseOBJ(r io.Reader, mtllib func(name string) (map[string]*Material, error)) ([]*Mesh, error) {
	var positions, normals []math.Vec3
	var uvs []math.Vec2
	materials := map[string]*Material{}

	var objects []objObject
	cur := &objObject{name: "default"}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if v, ok := parseVec3(fields); ok {
				positions = append(positions, v)
			}
		case "vn":
			if v, ok := parseVec3(fields); ok {
				normals = append(normals, v)
			}
		case "vt":
			if len(fields) < 3 {
				continue
			}
			u, _ := strconv.ParseFloat(fields[1], 32)
			v, _ := strconv.ParseFloat(fields[2], 32)
			uvs = append(uvs, math.Vec2{X: float32(u), Y: float32(v)})

		case "o", "g":
			if len(cur.faces) > 0 {
				objects = append(objects, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objObject{name: name, matName: cur.matName}

		case "usemtl":
			if len(fields) > 1 {
				cur.matName = fields[1]
			}

		case "mtllib":
			if len(fields) < 2 || mtllib == nil {
				continue
			}
			loaded, err := mtllib(fields[1])
			if err != nil {
				logger.Warningf("mtllib %s: %v", fields[1], err)
				continue
			}
			for k, v := range loaded {
				materials[k] = v
			}

		case "f":
			if len(fields) < 4 {
				continue
			}
			fverts := make([][3]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				fverts = append(fverts, parseFaceVertex(tok, len(positions), len(uvs), len(normals)))
			}
			// Fan triangulation: 0-1-2, 0-2-3, ...
			for i := 1; i+1 < len(fverts); i++ {
				f0, f1, f2 := fverts[0], fverts[i], fverts[i+1]
				cur.faces = append(cur.faces, objFace{
					vIdx:  [3]int{f0[0], f1[0], f2[0]},
					vtIdx: [3]int{f0[1], f1[1], f2[1]},
					vnIdx: [3]int{f0[2], f1[2], f2[2]},
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}

	if len(cur.faces) > 0 {
		objects = append(objects, *cur)
	}
	if len(objects) == 0 {
		return nil, fmt.Errorf("no geometry found")
	}

	meshes := make([]*Mesh, 0, len(objects))
	for _, obj := range objects {
		mesh := buildMeshFromOBJ(obj.name, obj.faces, positions, normals, uvs)
		if mat, ok := materials[obj.matName]; ok {
			mesh.Material = mat
		}
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

func parseVec3(fields []string) (math.Vec3, bool) {
	if len(fields) < 4 {
		return math.Vec3{}, false
	}
	x, _ := strconv.ParseFloat(fields[1], 32)
	y, _ := strconv.ParseFloat(fields[2], 32)
	z, _ := strconv.ParseFloat(fields[3], 32)
	return math.Vec3{X: float32(x), Y: float32(y), Z: float32(z)}, true
}

// parseFaceVertex parses "v", "v/vt", "v//vn" or "v/vt/vn" into 0-based
// indices, -1 when absent. Negative OBJ indices count back from the end.
func parseFaceVertex(tok string, nv, nvt, nvn int) [3]int {
	res := [3]int{-1, -1, -1}
	counts := [3]int{nv, nvt, nvn}
	for i, part := range strings.SplitN(tok, "/", 3) {
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		switch {
		case err != nil || n == 0:
		case n > 0:
			res[i] = n - 1
		default:
			res[i] = counts[i] + n
		}
	}
	return res
}

// buildMeshFromOBJ converts parsed face data into a deduplicated Mesh.
func buildMeshFromOBJ(name string, faces []objFace, positions, normals []math.Vec3, uvs []math.Vec2) *Mesh {
	vertMap := map[[3]int]uint32{}
	var vertices []core.Vertex
	var indices []uint32

	for _, face := range faces {
		for c := 0; c < 3; c++ {
			k := [3]int{face.vIdx[c], face.vtIdx[c], face.vnIdx[c]}
			idx, ok := vertMap[k]
			if !ok {
				v := core.Vertex{Normal: math.Vec3Up, Color: core.ColorWhite}
				if k[0] >= 0 && k[0] < len(positions) {
					v.Position = positions[k[0]]
				}
				if k[1] >= 0 && k[1] < len(uvs) {
					v.UV = uvs[k[1]]
				}
				if k[2] >= 0 && k[2] < len(normals) {
					v.Normal = normals[k[2]]
				}
				idx = uint32(len(vertices))
				vertices = append(vertices, v)
				vertMap[k] = idx
			}
			indices = append(indices, idx)
		}
	}

	if len(normals) == 0 {
		computeFlatNormals(vertices, indices)
	}
	return CreateMeshFromData(name, vertices, indices)
}

// computeFlatNormals writes area-weighted vertex normals.
func computeFlatNormals(vertices []core.Vertex, indices []uint32) {
	accum := make([]math.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if int(max(i0, i1, i2)) >= len(vertices) {
			continue
		}
		v0 := vertices[i0].Position
		n := vertices[i1].Position.Sub(v0).Cross(vertices[i2].Position.Sub(v0))
		accum[i0] = accum[i0].Add(n)
		accum[i1] = accum[i1].Add(n)
		accum[i2] = accum[i2].Add(n)
	}
	for i := range vertices {
		if accum[i].LengthSqr() > 0 {
			vertices[i].Normal = accum[i].Normalize()
		}
	}
}

// ParseMTL reads the diffuse colors of a Wavefront material library.
func ParseMTL(r io.Reader) (map[string]*Material, error) {
	mats := map[string]*Material{}
	var cur *Material

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "newmtl":
			if len(fields) > 1 {
				cur = NewMaterial(fields[1], core.ColorWhite)
				mats[fields[1]] = cur
			}
		case "Kd":
			if v, ok := parseVec3(fields); ok && cur != nil {
				cur.Albedo = core.Color{R: v.X, G: v.Y, B: v.Z, A: 1}
			}
		}
	}
	return mats, scanner.Err()
}
