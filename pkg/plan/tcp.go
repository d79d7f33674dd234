// pkg/plan/tcp.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package plan

import (
	"fmt"
	"strings"

	"github.com/mmp/trajgen/pkg/math"
)

// NavPoint is a position at a time, with an optional label.
type NavPoint struct {
	Pos   math.Position
	Time  float64
	Label string
}

func (np NavPoint) String() string {
	if np.Label != "" {
		return fmt.Sprintf("%s@%.3f[%s]", np.Pos, np.Time, np.Label)
	}
	return fmt.Sprintf("%s@%.3f", np.Pos, np.Time)
}

// Axis identifies one of the three independent kinds of acceleration
// zone.
type Axis int

const (
	TrkAxis Axis = iota
	GsAxis
	VsAxis
)

var Axes = [...]Axis{TrkAxis, GsAxis, VsAxis}

func (ax Axis) String() string {
	return [...]string{"trk", "gs", "vs"}[ax]
}

// TCPKind is the role a point plays on one axis.
type TCPKind uint8

const (
	None TCPKind = iota
	Begin
	End
	EndBegin // ends one zone and begins the next
)

func (k TCPKind) IsBegin() bool { return k == Begin || k == EndBegin }
func (k TCPKind) IsEnd() bool   { return k == End || k == EndBegin }

var tcpNames = [...][4]string{
	TrkAxis: {"NONE", "BOT", "EOT", "EBOT"},
	GsAxis:  {"NONE", "BGS", "EGS", "EBGS"},
	VsAxis:  {"NONE", "BVS", "EVS", "EBVS"},
}

// KindName returns the conventional name of k on the given axis (e.g.
// "BOT" for the beginning of a turn).
func KindName(ax Axis, k TCPKind) string {
	return tcpNames[ax][k]
}

// ParseKind is the inverse of KindName.
func ParseKind(ax Axis, s string) (TCPKind, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == "-" {
		return None, nil
	}
	for k, n := range tcpNames[ax] {
		if n == s {
			return TCPKind(k), nil
		}
	}
	return None, fmt.Errorf("%s: unknown %s TCP type", s, ax)
}

// TcpData is the trajectory change point metadata attached to each point
// of a Plan.
type TcpData struct {
	Trk, Gs, Vs TCPKind

	// SignedRadius and TurnCenter describe the turn that begins here;
	// positive radii are right turns.
	SignedRadius float64
	TurnCenter   math.Position
	GsAccel      float64 // signed, for the zone that begins here
	VsAccel      float64

	// Provenance: where the point (or the vertex it was generated from)
	// was in the linear plan.
	SourcePos   math.Position
	SourceTime  float64
	LinearIndex int
	Info        string

	Virtual     bool // temporary; removed by cleanup unless it carries a TCP
	AltPreserve bool // the vertical profile must pass through this altitude
	Original    bool // point came from the linear plan
	MOT         bool // middle of turn
}

// MakeTcpData returns metadata for an ordinary point with no provenance.
func MakeTcpData() TcpData {
	return TcpData{LinearIndex: -1, SourceTime: -1}
}

func (td TcpData) Kind(ax Axis) TCPKind {
	switch ax {
	case TrkAxis:
		return td.Trk
	case GsAxis:
		return td.Gs
	default:
		return td.Vs
	}
}

func (td *TcpData) setKind(ax Axis, k TCPKind) {
	switch ax {
	case TrkAxis:
		td.Trk = k
	case GsAxis:
		td.Gs = k
	default:
		td.Vs = k
	}
}

func (td TcpData) IsBegin(ax Axis) bool { return td.Kind(ax).IsBegin() }
func (td TcpData) IsEnd(ax Axis) bool   { return td.Kind(ax).IsEnd() }

func (td TcpData) IsBOT() bool    { return td.Trk.IsBegin() }
func (td TcpData) IsEOT() bool    { return td.Trk.IsEnd() }
func (td TcpData) IsTrkTCP() bool { return td.Trk != None }
func (td TcpData) IsBGS() bool    { return td.Gs.IsBegin() }
func (td TcpData) IsEGS() bool    { return td.Gs.IsEnd() }
func (td TcpData) IsGsTCP() bool  { return td.Gs != None }
func (td TcpData) IsBVS() bool    { return td.Vs.IsBegin() }
func (td TcpData) IsEVS() bool    { return td.Vs.IsEnd() }
func (td TcpData) IsVsTCP() bool  { return td.Vs != None }

// IsTCP reports whether the point is a TCP on any axis.
func (td TcpData) IsTCP() bool {
	return td.Trk != None || td.Gs != None || td.Vs != None
}

// TurnDir returns +1 for a right turn, -1 for left, and 0 if there is no
// radius.
func (td TcpData) TurnDir() int {
	return int(math.Sign(td.SignedRadius))
}

func (td *TcpData) SetBOT(signedRadius float64, center math.Position) {
	if td.Trk.IsEnd() {
		td.Trk = EndBegin
	} else {
		td.Trk = Begin
	}
	td.SignedRadius = signedRadius
	td.TurnCenter = center
}

func (td *TcpData) SetEOT() {
	if td.Trk.IsBegin() {
		td.Trk = EndBegin
	} else {
		td.Trk = End
		td.SignedRadius = 0
		td.TurnCenter = math.Position{}
	}
}

func (td *TcpData) SetBGS(accel float64) {
	if td.Gs.IsEnd() {
		td.Gs = EndBegin
	} else {
		td.Gs = Begin
	}
	td.GsAccel = accel
}

func (td *TcpData) SetEGS() {
	if td.Gs.IsBegin() {
		td.Gs = EndBegin
	} else {
		td.Gs = End
		td.GsAccel = 0
	}
}

func (td *TcpData) SetBVS(accel float64) {
	if td.Vs.IsEnd() {
		td.Vs = EndBegin
	} else {
		td.Vs = Begin
	}
	td.VsAccel = accel
}

func (td *TcpData) SetEVS() {
	if td.Vs.IsBegin() {
		td.Vs = EndBegin
	} else {
		td.Vs = End
		td.VsAccel = 0
	}
}

// Clear removes the TCP on the given axis along with its parameters.
func (td *TcpData) Clear(ax Axis) {
	td.setKind(ax, None)
	switch ax {
	case TrkAxis:
		td.SignedRadius = 0
		td.TurnCenter = math.Position{}
	case GsAxis:
		td.GsAccel = 0
	case VsAxis:
		td.VsAccel = 0
	}
}

// clearBegin turns an EndBegin into an End and a Begin into None.
func (td *TcpData) clearBegin(ax Axis) {
	if td.Kind(ax) == EndBegin {
		td.Clear(ax)
		td.setKind(ax, End)
		return
	}
	td.Clear(ax)
}

// clearEnd turns an EndBegin into a Begin (keeping its parameters) and an
// End into None.
func (td *TcpData) clearEnd(ax Axis) {
	if td.Kind(ax) == EndBegin {
		td.setKind(ax, Begin)
		return
	}
	td.Clear(ax)
}

// HasSource reports whether provenance has been recorded.
func (td TcpData) HasSource() bool {
	return td.SourceTime >= 0
}

// SetSource records provenance from a point of the linear plan.
func (td *TcpData) SetSource(np NavPoint, linearIndex int) {
	td.SourcePos = np.Pos
	td.SourceTime = np.Time
	td.LinearIndex = linearIndex
}

// merge combines o into td. It fails if the two carry conflicting TCPs
// on the same axis.
func (td TcpData) merge(o TcpData) (TcpData, bool) {
	r := td
	for _, ax := range Axes {
		a, b := td.Kind(ax), o.Kind(ax)
		var k TCPKind
		switch {
		case b == None || a == b && !a.IsBegin():
			k = a
		case a == None:
			k = b
		case a == End && b == Begin:
			k = EndBegin
		case a == Begin && b == End:
			k = EndBegin
		default:
			return td, false
		}
		r.setKind(ax, k)
		if b.IsBegin() {
			switch ax {
			case TrkAxis:
				r.SignedRadius, r.TurnCenter = o.SignedRadius, o.TurnCenter
			case GsAxis:
				r.GsAccel = o.GsAccel
			case VsAxis:
				r.VsAccel = o.VsAccel
			}
		}
	}
	r.Virtual = td.Virtual && o.Virtual
	r.AltPreserve = td.AltPreserve || o.AltPreserve
	r.Original = td.Original || o.Original
	r.MOT = td.MOT || o.MOT
	if !r.HasSource() && o.HasSource() {
		r.SourcePos, r.SourceTime, r.LinearIndex = o.SourcePos, o.SourceTime, o.LinearIndex
	}
	if r.Info == "" {
		r.Info = o.Info
	} else if o.Info != "" && o.Info != r.Info {
		r.Info += "; " + o.Info
	}
	return r, true
}

// TypeString returns the point flags in the form used by the text
// format.
func (td TcpData) TypeString() string {
	var f []string
	if td.Original {
		f = append(f, "orig")
	}
	if td.Virtual {
		f = append(f, "virtual")
	}
	if td.AltPreserve {
		f = append(f, "altpreserve")
	}
	if td.MOT {
		f = append(f, "mot")
	}
	if len(f) == 0 {
		return "-"
	}
	return strings.Join(f, "+")
}

func (td *TcpData) parseTypeString(s string) error {
	if s == "" || s == "-" {
		return nil
	}
	for _, f := range strings.Split(s, "+") {
		switch strings.ToLower(f) {
		case "orig":
			td.Original = true
		case "virtual":
			td.Virtual = true
		case "altpreserve":
			td.AltPreserve = true
		case "mot":
			td.MOT = true
		default:
			return fmt.Errorf("%s: unknown point type", f)
		}
	}
	return nil
}

func (td TcpData) String() string {
	var s []string
	for _, ax := range Axes {
		if k := td.Kind(ax); k != None {
			s = append(s, KindName(ax, k))
		}
	}
	if td.IsBOT() {
		s = append(s, fmt.Sprintf("r=%.1f", td.SignedRadius))
	}
	if td.IsBGS() {
		s = append(s, fmt.Sprintf("ga=%.3f", td.GsAccel))
	}
	if td.IsBVS() {
		s = append(s, fmt.Sprintf("va=%.3f", td.VsAccel))
	}
	if t := td.TypeString(); t != "-" {
		s = append(s, t)
	}
	return strings.Join(s, " ")
}
