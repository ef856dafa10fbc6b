package trimesh

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/volumetric/spatialmath"
)

const (
	treeFileMagic   uint32 = 0x54524556 // "VERT" little endian
	treeFileVersion uint32 = 1

	maxTreeNodes     = 1 << 26
	maxTreeTriangles = 1 << 26

	// records are decoded this many at a time, so memory grows with the data actually present
	// rather than with the counts claimed by the header.
	readChunk = 4096
)

type treeFileHeader struct {
	Magic         uint32
	Version       uint32
	NodeCount     uint32
	TriangleCount uint32
}

type wireNode struct {
	Min, Max      [3]float64
	Positive      int32
	Negative      int32
	TriangleStart int32
	TriangleCount int32
}

type wireTriangle struct {
	A, B, C [3]float64
}

func toWire(v r3.Vector) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func fromWire(v [3]float64) r3.Vector {
	return r3.Vector{X: v[0], Y: v[1], Z: v[2]}
}

// Save writes the tree to w as a gzip compressed little endian stream.
func (t *Tree) Save(w io.Writer) error {
	if err := t.Validate(); err != nil {
		return errors.Wrap(err, "refusing to save invalid tree")
	}
	zw := gzip.NewWriter(w)
	header := treeFileHeader{
		Magic:         treeFileMagic,
		Version:       treeFileVersion,
		NodeCount:     uint32(len(t.Nodes)),
		TriangleCount: uint32(len(t.Triangles)),
	}
	if err := binary.Write(zw, binary.LittleEndian, header); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	nodes := make([]wireNode, len(t.Nodes))
	for i, n := range t.Nodes {
		nodes[i] = wireNode{
			Min:           toWire(n.Bound.Min),
			Max:           toWire(n.Bound.Max),
			Positive:      n.Positive,
			Negative:      n.Negative,
			TriangleStart: n.TriangleStart,
			TriangleCount: n.TriangleCount,
		}
	}
	if err := binary.Write(zw, binary.LittleEndian, nodes); err != nil {
		return errors.Wrap(err, "failed to write nodes")
	}

	tris := make([]wireTriangle, len(t.Triangles))
	for i, tri := range t.Triangles {
		tris[i] = wireTriangle{A: toWire(tri.A), B: toWire(tri.B), C: toWire(tri.C)}
	}
	if err := binary.Write(zw, binary.LittleEndian, tris); err != nil {
		return errors.Wrap(err, "failed to write triangles")
	}
	return zw.Close()
}

// LoadTree reads a tree written by Save. The loaded tree is validated before it is returned.
func LoadTree(r io.Reader) (*Tree, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open tree stream")
	}
	defer zr.Close() //nolint:errcheck

	var header treeFileHeader
	if err := binary.Read(zr, binary.LittleEndian, &header); err != nil {
		return nil, errors.Wrap(err, "failed to read header")
	}
	if header.Magic != treeFileMagic {
		return nil, errors.New("invalid tree file: magic number mismatch")
	}
	if header.Version != treeFileVersion {
		return nil, errors.Errorf("unsupported tree file version: %d", header.Version)
	}
	if header.NodeCount > maxTreeNodes || header.TriangleCount > maxTreeTriangles {
		return nil, errors.Errorf("tree file too large: %d nodes, %d triangles", header.NodeCount, header.TriangleCount)
	}

	nodes, err := readRecords[wireNode](zr, header.NodeCount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read nodes")
	}
	tris, err := readRecords[wireTriangle](zr, header.TriangleCount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read triangles")
	}

	t := &Tree{}
	if len(nodes) > 0 {
		t.Nodes = make([]Node, len(nodes))
	}
	for i, n := range nodes {
		t.Nodes[i] = Node{
			Bound:         spatialmath.AABB{Min: fromWire(n.Min), Max: fromWire(n.Max)},
			Positive:      n.Positive,
			Negative:      n.Negative,
			TriangleStart: n.TriangleStart,
			TriangleCount: n.TriangleCount,
		}
	}
	if len(tris) > 0 {
		t.Triangles = make([]*spatialmath.Triangle, len(tris))
	}
	for i, tri := range tris {
		t.Triangles[i] = spatialmath.NewTriangle(fromWire(tri.A), fromWire(tri.B), fromWire(tri.C))
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func readRecords[T any](r io.Reader, count uint32) ([]T, error) {
	var out []T
	chunk := make([]T, min(int(count), readChunk))
	for remaining := int(count); remaining > 0; {
		batch := chunk[:min(remaining, readChunk)]
		if err := binary.Read(r, binary.LittleEndian, batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
		remaining -= len(batch)
	}
	return out, nil
}

// MarshalBinary encodes the tree in the format written by Save.
func (t *Tree) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces the tree with one decoded from data.
func (t *Tree) UnmarshalBinary(data []byte) error {
	loaded, err := LoadTree(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*t = *loaded
	return nil
}
