package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrUnsupportedFormat is returned when a template file is not an STL.
var ErrUnsupportedFormat = errors.New("unsupported solid file format")

const binaryTriangleSize = 50 // 12 floats + uint16 attribute

// ReadFile loads a mesh from an STL file, accepting both binary and ASCII
// encodings. Only .stl files are supported; the extension check happens
// before any I/O so a clear error reaches the user.
func ReadFile(path string) (*Mesh, error) {
	if strings.ToLower(filepath.Ext(path)) != ".stl" {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode parses STL bytes. Binary files are recognized by their size matching
// the declared triangle count; everything else that opens with "solid" is
// parsed as ASCII.
func Decode(data []byte) (*Mesh, error) {
	if len(data) >= 84 {
		n := binary.LittleEndian.Uint32(data[80:84])
		if len(data) == 84+int(n)*binaryTriangleSize {
			return decodeBinary(data[84:], int(n))
		}
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return decodeASCII(data)
	}
	return nil, errors.New("not a valid STL file")
}

func decodeBinary(body []byte, n int) (*Mesh, error) {
	m := &Mesh{Triangles: make([]Triangle, 0, n)}
	for i := 0; i < n; i++ {
		rec := body[i*binaryTriangleSize:]
		var tri Triangle
		for v := 0; v < 3; v++ {
			const normalSize = 12
			off := normalSize + v*12
			tri[v] = Vec{
				X: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[off:]))),
				Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[off+4:]))),
				Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[off+8:]))),
			}
		}
		m.Triangles = append(m.Triangles, tri)
	}
	return m, nil
}

func decodeASCII(data []byte) (*Mesh, error) {
	m := &Mesh{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	var cur Triangle
	nv := 0
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 4 || fields[0] != "vertex" {
			continue
		}
		var v Vec
		var err error
		if v.X, err = strconv.ParseFloat(fields[1], 64); err != nil {
			return nil, fmt.Errorf("bad vertex: %w", err)
		}
		if v.Y, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return nil, fmt.Errorf("bad vertex: %w", err)
		}
		if v.Z, err = strconv.ParseFloat(fields[3], 64); err != nil {
			return nil, fmt.Errorf("bad vertex: %w", err)
		}
		cur[nv] = v
		nv++
		if nv == 3 {
			m.Triangles = append(m.Triangles, cur)
			nv = 0
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if nv != 0 {
		return nil, errors.New("truncated facet")
	}
	if len(m.Triangles) == 0 {
		return nil, errors.New("no facets found")
	}
	return m, nil
}

// WriteFile writes the mesh to path as binary STL.
func WriteFile(path string, m *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, m); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Encode writes the mesh as binary STL with freshly computed face normals.
func Encode(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	var header [80]byte
	copy(header[:], "badgeforge binary STL")
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return err
	}
	buf := make([]byte, binaryTriangleSize)
	for _, tri := range m.Triangles {
		n := tri.normal()
		putVec(buf[0:], n)
		putVec(buf[12:], tri[0])
		putVec(buf[24:], tri[1])
		putVec(buf[36:], tri[2])
		buf[48], buf[49] = 0, 0
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func putVec(b []byte, v Vec) {
	binary.LittleEndian.PutUint32(b[0:], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(float32(v.Z)))
}
