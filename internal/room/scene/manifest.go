// Package scene resolves named room objects into a validated role manifest.
// The scene itself is loaded and rendered elsewhere; this package only owns
// the mapping from interactive roles to picked handles and their per-role
// visual state.
package scene

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gambo89/gambo-room/internal/engine/picking"
	"github.com/gambo89/gambo-room/pkg/math"
)

// ErrMissingRole indicates a required interactive role could not be resolved
// from the loaded scene. Resolution fails loud at load time instead of
// leaving silent no-ops behind.
var ErrMissingRole = errors.New("scene: required role unresolved")

// Role identifies an interactive slot in the room.
type Role int

const (
	RoleNone Role = iota
	RolePowerButton
	RoleOkButton
	RoleUpButton
	RoleDownButton
	RoleLeftButton
	RoleRightButton
	RoleSpeaker
	RoleTvScreen
	RoleLamp
	RoleProp
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RolePowerButton:
		return "power"
	case RoleOkButton:
		return "ok"
	case RoleUpButton:
		return "up"
	case RoleDownButton:
		return "down"
	case RoleLeftButton:
		return "left"
	case RoleRightButton:
		return "right"
	case RoleSpeaker:
		return "speaker"
	case RoleTvScreen:
		return "tv-screen"
	case RoleLamp:
		return "lamp"
	case RoleProp:
		return "prop"
	default:
		return "none"
	}
}

// requiredRoles must all resolve for the room to be interactive.
var requiredRoles = []Role{
	RolePowerButton,
	RoleOkButton,
	RoleUpButton,
	RoleDownButton,
	RoleLeftButton,
	RoleRightButton,
	RoleSpeaker,
	RoleTvScreen,
	RoleLamp,
}

// roleKeywords maps name/material substrings to roles, checked in order.
// An explicit role field in the scene manifest takes priority.
var roleKeywords = []struct {
	keyword string
	role    Role
}{
	{"power", RolePowerButton},
	{"btn_ok", RoleOkButton},
	{"arrow_up", RoleUpButton},
	{"arrow_down", RoleDownButton},
	{"arrow_left", RoleLeftButton},
	{"arrow_right", RoleRightButton},
	{"speaker", RoleSpeaker},
	{"tv_screen", RoleTvScreen},
	{"screen", RoleTvScreen},
	{"lamp", RoleLamp},
	{"prop", RoleProp},
}

// Object describes one scene object as the loader reports it.
type Object struct {
	Name     string     `yaml:"name"`
	Material string     `yaml:"material"`
	Role     string     `yaml:"role"`   // optional explicit role
	Bounds   [6]float32 `yaml:"bounds"` // world-space min xyz, max xyz
	Link     string     `yaml:"link"`   // props: URL opened on click
	Color    [3]float32 `yaml:"color"`  // base albedo, white when omitted

	// ScreenQuad gives the UV-mapped plane of screen-like objects.
	ScreenQuad *QuadDef `yaml:"screen_quad"`
}

// QuadDef is the yaml form of a UV-carrying rectangle.
type QuadDef struct {
	Origin [3]float32 `yaml:"origin"`
	EdgeU  [3]float32 `yaml:"edge_u"`
	EdgeV  [3]float32 `yaml:"edge_v"`
}

// IsInteractive reports whether an object resolves to an interactive role,
// either through its explicit role field or by keyword match.
func IsInteractive(obj Object) bool {
	role := parseRole(obj.Role)
	if role == RoleNone {
		role = matchRole(obj.Name, obj.Material)
	}
	return role != RoleNone
}

// BaseColor returns an object's authored albedo, defaulting to white when
// the manifest leaves it out.
func BaseColor(obj Object) [3]float32 {
	if obj.Color == ([3]float32{}) {
		return [3]float32{1, 1, 1}
	}
	return obj.Color
}

// sceneFile is the root of the scene manifest yaml.
type sceneFile struct {
	Objects []Object `yaml:"objects"`
}

// LoadObjects reads a scene manifest file.
func LoadObjects(path string) ([]Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene manifest: %w", err)
	}

	var f sceneFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scene manifest %s: %w", path, err)
	}
	return f.Objects, nil
}

// VisualState is the per-role visual record the renderer applies each frame.
// Feedback systems write here instead of mutating material instances.
type VisualState struct {
	Offset            math.Vec3
	ScaleY            float32
	BaseColor         [3]float32
	Emissive          [3]float32
	EmissiveIntensity float32
}

// Handle is a resolved interactive object.
type Handle struct {
	Role   Role
	Name   string
	Bounds picking.AABB
	Quad   *picking.Quad // set for screen-like roles
	Link   string        // set for props

	Visual VisualState
}

// Hit describes a ray intersection with a handle.
type Hit struct {
	T      float32
	Normal math.Vec3
	UV     math.Vec2
	HasUV  bool
}

// Manifest maps roles to resolved handles.
type Manifest struct {
	byRole map[Role]*Handle
	props  []*Handle
}

// Resolve builds and validates the manifest from loaded scene objects.
// propLinks lets the config override or supply URLs for named props.
func Resolve(objects []Object, propLinks map[string]string) (*Manifest, error) {
	m := &Manifest{
		byRole: make(map[Role]*Handle),
	}

	for _, obj := range objects {
		role := parseRole(obj.Role)
		if role == RoleNone {
			role = matchRole(obj.Name, obj.Material)
		}
		if role == RoleNone {
			continue // decorative object
		}

		h := &Handle{
			Role: role,
			Name: obj.Name,
			Bounds: picking.NewAABB(
				obj.Bounds[0], obj.Bounds[1], obj.Bounds[2],
				obj.Bounds[3], obj.Bounds[4], obj.Bounds[5],
			),
			Link: obj.Link,
			Visual: VisualState{
				ScaleY:            1,
				BaseColor:         BaseColor(obj),
				EmissiveIntensity: 0,
			},
		}

		if obj.ScreenQuad != nil {
			h.Quad = &picking.Quad{
				Origin: vec3(obj.ScreenQuad.Origin),
				EdgeU:  vec3(obj.ScreenQuad.EdgeU),
				EdgeV:  vec3(obj.ScreenQuad.EdgeV),
			}
		}

		if role == RoleProp {
			if link, ok := propLinks[obj.Name]; ok {
				h.Link = link
			}
			m.props = append(m.props, h)
			continue
		}

		if _, dup := m.byRole[role]; dup {
			return nil, fmt.Errorf("scene: role %s resolved twice (object %q)", role, obj.Name)
		}
		m.byRole[role] = h
	}

	var missing []string
	for _, role := range requiredRoles {
		if _, ok := m.byRole[role]; !ok {
			missing = append(missing, role.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingRole, strings.Join(missing, ", "))
	}

	if m.byRole[RoleTvScreen].Quad == nil {
		return nil, fmt.Errorf("scene: tv screen object has no screen_quad")
	}

	return m, nil
}

// parseRole maps an explicit yaml role string to a Role.
func parseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "power":
		return RolePowerButton
	case "ok":
		return RoleOkButton
	case "up":
		return RoleUpButton
	case "down":
		return RoleDownButton
	case "left":
		return RoleLeftButton
	case "right":
		return RoleRightButton
	case "speaker":
		return RoleSpeaker
	case "tv-screen", "tv_screen", "screen":
		return RoleTvScreen
	case "lamp":
		return RoleLamp
	case "prop":
		return RoleProp
	default:
		return RoleNone
	}
}

// matchRole falls back to name/material keyword matching.
func matchRole(name, material string) Role {
	lname := strings.ToLower(name)
	lmat := strings.ToLower(material)
	for _, kw := range roleKeywords {
		if strings.Contains(lname, kw.keyword) || strings.Contains(lmat, kw.keyword) {
			return kw.role
		}
	}
	return RoleNone
}

// Handle returns the handle for a role, nil when unresolved (props excluded).
func (m *Manifest) Handle(r Role) *Handle {
	return m.byRole[r]
}

// Props returns the collectible prop handles.
func (m *Manifest) Props() []*Handle {
	return m.props
}

// Interactive returns every interactive handle, props included.
func (m *Manifest) Interactive() []*Handle {
	out := make([]*Handle, 0, len(m.byRole)+len(m.props))
	for _, role := range requiredRoles {
		if h := m.byRole[role]; h != nil {
			out = append(out, h)
		}
	}
	out = append(out, m.props...)
	return out
}

// PickResult pairs a handle with its ray intersection.
type PickResult struct {
	Handle *Handle
	Hit    Hit
}

// PickAll casts a ray against every interactive handle and returns every
// hit, nearest first. Hover resolution picks among these by role priority.
func (m *Manifest) PickAll(ray picking.Ray) []PickResult {
	var out []PickResult
	for _, h := range m.Interactive() {
		if h.Quad != nil {
			if t, u, v, ok := ray.Intersect(*h.Quad); ok {
				out = append(out, PickResult{h, Hit{
					T:      t,
					Normal: h.Quad.Normal(),
					UV:     math.Vec2{X: u, Y: v},
					HasUV:  true,
				}})
			}
			continue
		}
		if t, normal, ok := ray.IntersectAABB(h.Bounds); ok {
			out = append(out, PickResult{h, Hit{T: t, Normal: normal}})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hit.T < out[j].Hit.T })
	return out
}

// Pick casts a ray against every interactive handle and returns the nearest
// hit. Screen-like handles are tested against their quad so the hit carries
// a UV coordinate.
func (m *Manifest) Pick(ray picking.Ray) (*Handle, Hit, bool) {
	var (
		best    *Handle
		bestHit Hit
		found   bool
	)

	consider := func(h *Handle, hit Hit) {
		if !found || hit.T < bestHit.T {
			best = h
			bestHit = hit
			found = true
		}
	}

	for _, h := range m.Interactive() {
		if h.Quad != nil {
			if t, u, v, ok := ray.Intersect(*h.Quad); ok {
				consider(h, Hit{
					T:      t,
					Normal: h.Quad.Normal(),
					UV:     math.Vec2{X: u, Y: v},
					HasUV:  true,
				})
			}
			continue
		}
		if t, normal, ok := ray.IntersectAABB(h.Bounds); ok {
			consider(h, Hit{T: t, Normal: normal})
		}
	}

	return best, bestHit, found
}

func vec3(v [3]float32) math.Vec3 {
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
