// pkg/plan/codec.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plan

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/mmp/trajgen/pkg/math"
)

// The text form of a plan is a table with one row per point. The verbose
// form has 21 columns:
//
//	name, x/lat, y/lon, z/alt, time, type, trk, gs, vs, radius, gs_accel,
//	vs_accel, src x/lat, src y/lon, src z/alt, src_time, center x/lat,
//	center y/lon, center z/alt, info, label
//
// and the minimal form has 6: name, the position, time and label, with
// the TCP metadata folded into the label. Euclidean coordinates and
// radii are in nautical miles, latitudes and longitudes in degrees,
// altitudes in feet, times in seconds and accelerations in m/s^2.
const (
	VerboseColumns = 21
	MinimalColumns = 6
)

// BinaryFileSuffix is the file name suffix of the compressed binary form.
const BinaryFileSuffix = ".msgpack.zst"

var (
	ErrMixedCoordinates = errors.New("Plans mix lat-long and Euclidean positions")
	ErrBadHeader        = errors.New("Unrecognized plan file header")
)

func header(latlon, verbose bool) []string {
	pos := []string{"sx", "sy", "sz"}
	if latlon {
		pos = []string{"lat", "lon", "alt"}
	}
	h := append([]string{"name"}, pos...)
	h = append(h, "time")
	if !verbose {
		return append(h, "label")
	}
	h = append(h, "type", "trk_type", "gs_type", "vs_type", "radius", "gs_accel", "vs_accel")
	for _, pfx := range []string{"src_", "center_"} {
		for _, c := range pos {
			h = append(h, pfx+c)
		}
		if pfx == "src_" {
			h = append(h, "src_time")
		}
	}
	return append(h, "info", "label")
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func positionFields(p math.Position, latlon bool) []string {
	if latlon {
		return []string{fmtFloat(math.Degrees(p.Lat())), fmtFloat(math.Degrees(p.Lon())), fmtFloat(math.MetersToFeet(p.Z))}
	}
	return []string{fmtFloat(math.MetersToNM(p.X)), fmtFloat(math.MetersToNM(p.Y)), fmtFloat(math.MetersToFeet(p.Z))}
}

func parsePosition(f []string, latlon bool) (math.Position, error) {
	var v [3]float64
	for i := range v {
		var err error
		if v[i], err = strconv.ParseFloat(strings.TrimSpace(f[i]), 64); err != nil {
			return math.Position{}, err
		}
	}
	if latlon {
		return math.MakeLatLonAltDeg(v[0], v[1], math.FeetToMeters(v[2])), nil
	}
	return math.MakeXYZ(math.NMToMeters(v[0]), math.NMToMeters(v[1]), math.FeetToMeters(v[2])), nil
}

func typeField(td TcpData) string {
	s := td.TypeString()
	if td.LinearIndex < 0 {
		return s
	}
	if s == "-" {
		return fmt.Sprintf("idx=%d", td.LinearIndex)
	}
	return fmt.Sprintf("%s+idx=%d", s, td.LinearIndex)
}

func parseTypeField(td *TcpData, s string) error {
	var rest []string
	for _, f := range strings.Split(s, "+") {
		if idx, ok := strings.CutPrefix(f, "idx="); ok {
			var err error
			if td.LinearIndex, err = strconv.Atoi(idx); err != nil {
				return err
			}
		} else {
			rest = append(rest, f)
		}
	}
	return td.parseTypeString(strings.Join(rest, "+"))
}

// minimalLabel folds the TCP metadata into the label as ;key=value tags.
func minimalLabel(np NavPoint, td TcpData, latlon bool) string {
	s := np.Label
	add := func(k, v string) { s += ";" + k + "=" + v }
	if td.Trk != None {
		add("trk", KindName(TrkAxis, td.Trk))
	}
	if td.SignedRadius != 0 {
		add("r", fmtFloat(math.MetersToNM(td.SignedRadius)))
	}
	if td.IsBOT() {
		c := positionFields(td.TurnCenter, latlon)
		add("cx", c[0])
		add("cy", c[1])
		add("cz", c[2])
	}
	if td.Gs != None {
		add("gs", KindName(GsAxis, td.Gs))
		if td.IsBGS() {
			add("ga", fmtFloat(td.GsAccel))
		}
	}
	if td.Vs != None {
		add("vs", KindName(VsAxis, td.Vs))
		if td.IsBVS() {
			add("va", fmtFloat(td.VsAccel))
		}
	}
	if td.HasSource() {
		src := positionFields(td.SourcePos, latlon)
		add("sx", src[0])
		add("sy", src[1])
		add("sz", src[2])
		add("st", fmtFloat(td.SourceTime))
	}
	if t := typeField(td); t != "-" {
		add("type", t)
	}
	return s
}

func parseMinimalLabel(s string, latlon bool) (string, TcpData, error) {
	td := MakeTcpData()
	fields := strings.Split(s, ";")
	var center, src [3]string
	for _, f := range fields[1:] {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			return "", td, fmt.Errorf("%s: malformed tag", f)
		}
		var err error
		switch k {
		case "trk":
			td.Trk, err = ParseKind(TrkAxis, v)
		case "gs":
			td.Gs, err = ParseKind(GsAxis, v)
		case "vs":
			td.Vs, err = ParseKind(VsAxis, v)
		case "r":
			td.SignedRadius, err = strconv.ParseFloat(v, 64)
			td.SignedRadius = math.NMToMeters(td.SignedRadius)
		case "cx":
			center[0] = v
		case "cy":
			center[1] = v
		case "cz":
			center[2] = v
		case "sx":
			src[0] = v
		case "sy":
			src[1] = v
		case "sz":
			src[2] = v
		case "st":
			td.SourceTime, err = strconv.ParseFloat(v, 64)
		case "ga":
			td.GsAccel, err = strconv.ParseFloat(v, 64)
		case "va":
			td.VsAccel, err = strconv.ParseFloat(v, 64)
		case "type":
			err = parseTypeField(&td, v)
		default:
			err = fmt.Errorf("%s: unknown tag", k)
		}
		if err != nil {
			return "", td, err
		}
	}
	if td.IsBOT() {
		var err error
		if td.TurnCenter, err = parsePosition(center[:], latlon); err != nil {
			return "", td, fmt.Errorf("turn center: %w", err)
		}
	}
	if td.HasSource() {
		var err error
		if td.SourcePos, err = parsePosition(src[:], latlon); err != nil {
			return "", td, fmt.Errorf("source position: %w", err)
		}
	}
	return fields[0], td, nil
}

func (p *Plan) rows(latlon, verbose bool) [][]string {
	var rows [][]string
	for i, np := range p.points {
		td := p.data[i]
		row := append([]string{p.Name}, positionFields(np.Pos, latlon)...)
		row = append(row, fmtFloat(np.Time))
		if !verbose {
			rows = append(rows, append(row, minimalLabel(np, td, latlon)))
			continue
		}
		row = append(row, typeField(td), KindName(TrkAxis, td.Trk), KindName(GsAxis, td.Gs), KindName(VsAxis, td.Vs),
			fmtFloat(math.MetersToNM(td.SignedRadius)), fmtFloat(td.GsAccel), fmtFloat(td.VsAccel))
		row = append(row, positionFields(td.SourcePos, latlon)...)
		row = append(row, fmtFloat(td.SourceTime))
		row = append(row, positionFields(td.TurnCenter, latlon)...)
		rows = append(rows, append(row, td.Info, np.Label))
	}
	return rows
}

func coordinateKind(plans []*Plan) (bool, error) {
	latlon, set := false, false
	for _, p := range plans {
		for _, np := range p.points {
			if !set {
				latlon, set = np.Pos.LatLon, true
			} else if np.Pos.LatLon != latlon {
				return false, ErrMixedCoordinates
			}
		}
	}
	return latlon, nil
}

// WriteText writes the plans as a single table in the verbose or minimal
// form.
func WriteText(w io.Writer, plans []*Plan, verbose bool) error {
	latlon, err := coordinateKind(plans)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header(latlon, verbose)); err != nil {
		return err
	}
	for _, p := range plans {
		if err := cw.WriteAll(p.rows(latlon, verbose)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadText reads plans in either text form. Rows are grouped into plans
// by name, in the order the names first appear.
func ReadText(r io.Reader) ([]*Plan, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	hdr, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	var latlon, verbose bool
	switch {
	case len(hdr) == VerboseColumns && strings.EqualFold(hdr[1], "lat"):
		latlon, verbose = true, true
	case len(hdr) == VerboseColumns && strings.EqualFold(hdr[1], "sx"):
		verbose = true
	case len(hdr) == MinimalColumns && strings.EqualFold(hdr[1], "lat"):
		latlon = true
	case len(hdr) == MinimalColumns && strings.EqualFold(hdr[1], "sx"):
	default:
		return nil, fmt.Errorf("%v: %w", hdr, ErrBadHeader)
	}

	var plans []*Plan
	byName := make(map[string]*Plan)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if len(rec) != len(hdr) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line, len(hdr), len(rec))
		}

		np, td, err := parseRow(rec, latlon, verbose)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		p, ok := byName[rec[0]]
		if !ok {
			p = New(rec[0])
			byName[rec[0]] = p
			plans = append(plans, p)
		}
		if p.Add(np, td) < 0 {
			return nil, fmt.Errorf("line %d: %s", line, p.Message())
		}
	}
	return plans, nil
}

func parseRow(rec []string, latlon, verbose bool) (NavPoint, TcpData, error) {
	var np NavPoint
	td := MakeTcpData()
	var err error
	if np.Pos, err = parsePosition(rec[1:4], latlon); err != nil {
		return np, td, err
	}
	if np.Time, err = strconv.ParseFloat(strings.TrimSpace(rec[4]), 64); err != nil {
		return np, td, err
	}
	if !verbose {
		np.Label, td, err = parseMinimalLabel(rec[5], latlon)
		return np, td, err
	}

	if err = parseTypeField(&td, rec[5]); err != nil {
		return np, td, err
	}
	if td.Trk, err = ParseKind(TrkAxis, rec[6]); err != nil {
		return np, td, err
	}
	if td.Gs, err = ParseKind(GsAxis, rec[7]); err != nil {
		return np, td, err
	}
	if td.Vs, err = ParseKind(VsAxis, rec[8]); err != nil {
		return np, td, err
	}
	var f [4]float64
	for i, c := range []int{9, 10, 11, 15} {
		if f[i], err = strconv.ParseFloat(strings.TrimSpace(rec[c]), 64); err != nil {
			return np, td, err
		}
	}
	td.SignedRadius, td.GsAccel, td.VsAccel, td.SourceTime = math.NMToMeters(f[0]), f[1], f[2], f[3]
	if td.HasSource() {
		if td.SourcePos, err = parsePosition(rec[12:15], latlon); err != nil {
			return np, td, err
		}
	}
	if td.IsBOT() {
		if td.TurnCenter, err = parsePosition(rec[16:19], latlon); err != nil {
			return np, td, err
		}
	}
	td.Info, np.Label = rec[19], rec[20]
	return np, td, nil
}

///////////////////////////////////////////////////////////////////////////
// Binary

type planRecord struct {
	Name   string
	Note   string
	MinDt  float64
	Points []NavPoint
	Data   []TcpData
}

// WriteBinary writes the plans msgpack-encoded and zstd-compressed.
func WriteBinary(w io.Writer, plans []*Plan) error {
	recs := make([]planRecord, len(plans))
	for i, p := range plans {
		recs[i] = planRecord{Name: p.Name, Note: p.Note, MinDt: p.minDt, Points: p.points, Data: p.data}
	}

	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := msgpack.NewEncoder(zw).Encode(recs); err != nil {
		zw.Close()
		return fmt.Errorf("failed to encode plans: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}
	return nil
}

// ReadBinary reads plans written by WriteBinary.
func ReadBinary(r io.Reader) ([]*Plan, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var recs []planRecord
	if err := msgpack.NewDecoder(zr).Decode(&recs); err != nil {
		return nil, fmt.Errorf("failed to decode plans: %w", err)
	}
	plans := make([]*Plan, len(recs))
	for i, rec := range recs {
		if len(rec.Points) != len(rec.Data) {
			return nil, fmt.Errorf("%s: %d points but %d TCP records", rec.Name, len(rec.Points), len(rec.Data))
		}
		plans[i] = &Plan{Name: rec.Name, Note: rec.Note, minDt: rec.MinDt, points: rec.Points, data: rec.Data}
	}
	return plans, nil
}

///////////////////////////////////////////////////////////////////////////
// Files

// ReadFile reads plans from a file in the binary form if its name ends
// with BinaryFileSuffix and in the text form otherwise.
func ReadFile(path string) ([]*Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.HasSuffix(path, BinaryFileSuffix) {
		return ReadBinary(f)
	}
	return ReadText(f)
}

// WriteFile writes plans, choosing the form from the file name as
// ReadFile does.
func WriteFile(path string, plans []*Plan, verbose bool) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if strings.HasSuffix(path, BinaryFileSuffix) {
		err = WriteBinary(f, plans)
	} else {
		err = WriteText(f, plans, verbose)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
