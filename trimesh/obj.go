package trimesh

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// maxOBJLine bounds a single statement. Large polygons are written on one line, well past the
// scanner's default.
const maxOBJLine = 16 << 20

// LoadOBJ reads the vertex positions and faces of a Wavefront OBJ stream. Polygons are fan
// triangulated and every "o" or "g" statement starts a new submesh. Texture coordinates,
// normals and materials are ignored.
func LoadOBJ(r io.Reader) (*IndexedMesh, error) {
	mesh := &IndexedMesh{}
	current := -1
	startSubMesh := func() {
		mesh.SubMeshes = append(mesh.SubMeshes, SubMesh{Topology: TopologyTriangles})
		current = len(mesh.SubMeshes) - 1
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxOBJLine)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: vertex needs three coordinates", lineNum)
			}
			var coords [3]float64
			for i := range coords {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNum)
				}
				coords[i] = f
			}
			mesh.Positions = append(mesh.Positions, r3.Vector{X: coords[0], Y: coords[1], Z: coords[2]})
		case "f":
			if len(fields) < 4 {
				return nil, errors.Errorf("line %d: face needs at least three vertices", lineNum)
			}
			face := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				idx, err := parseFaceIndex(tok, len(mesh.Positions))
				if err != nil {
					return nil, errors.Wrapf(err, "line %d", lineNum)
				}
				face = append(face, idx)
			}
			if current < 0 {
				startSubMesh()
			}
			sm := &mesh.SubMeshes[current]
			for i := 1; i+1 < len(face); i++ {
				sm.Indices = append(sm.Indices, face[0], face[i], face[i+1])
			}
		case "o", "g":
			// consecutive group statements with no faces between them share a submesh
			if current < 0 || len(mesh.SubMeshes[current].Indices) > 0 {
				startSubMesh()
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return mesh, nil
}

// parseFaceIndex converts one "v", "v/vt", "v//vn" or "v/vt/vn" token to a zero based vertex
// index. Negative indices count back from the most recent vertex.
func parseFaceIndex(tok string, vertexCount int) (int, error) {
	if i := strings.IndexByte(tok, '/'); i >= 0 {
		tok = tok[:i]
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, errors.Wrapf(err, "bad face index %q", tok)
	}
	var idx int
	switch {
	case n > 0:
		idx = n - 1
	case n < 0:
		idx = vertexCount + n
	default:
		return 0, errors.New("face index 0 is not valid")
	}
	if idx < 0 || idx >= vertexCount {
		return 0, errors.Wrapf(ErrBadIndex, "face index %d with %d vertices", n, vertexCount)
	}
	return idx, nil
}
