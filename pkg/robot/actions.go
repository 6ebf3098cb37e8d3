// Package robot provides the robobug action catalog and the HTTP client that
// sends those actions to the robot-control server.
package robot

// ActionName identifies an action exposed to the block host.
type ActionName string

// Actions supported by the robobug.
const (
	Reset       ActionName = "reset"
	PowerOn     ActionName = "powerOn"
	PowerOff    ActionName = "powerOff"
	Sound       ActionName = "sound"
	BodyHeight  ActionName = "bodyHeight"
	Speed       ActionName = "speed"
	Walk        ActionName = "walk"
	WalkForward ActionName = "walkForward"
	WalkBack    ActionName = "walkBack"
	WalkLeft    ActionName = "walkLeft"
	WalkRight   ActionName = "walkRight"
	WalkStop    ActionName = "walkStop"
	AkkuCharge  ActionName = "akkuCharge"
)

// Category metadata for the block host.
const (
	CategoryID   = "robobug"
	CategoryName = "Robobug"
)

// Kind tells whether an action returns a value.
type Kind string

const (
	// Command actions only signal completion.
	Command Kind = "command"
	// Reporter actions resolve with the response body.
	Reporter Kind = "reporter"
)

// Param describes one numeric argument of an action.
type Param struct {
	Name        string `json:"name" yaml:"name"` // query key sent to the robot
	Arg         string `json:"arg" yaml:"arg"`   // argument key used by the block host
	Min         int    `json:"min" yaml:"min"`
	Max         int    `json:"max" yaml:"max"`
	Default     int    `json:"default" yaml:"default"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Action is one catalog entry.
type Action struct {
	Name     ActionName `json:"name" yaml:"name"`
	Endpoint string     `json:"endpoint" yaml:"endpoint"`
	Label    string     `json:"label" yaml:"label"`
	Kind     Kind       `json:"kind" yaml:"kind"`
	Params   []Param    `json:"params,omitempty" yaml:"params,omitempty"`
}

// AllActions returns all action names in catalog order.
func AllActions() []ActionName {
	return []ActionName{
		Reset,
		PowerOn,
		PowerOff,
		Sound,
		BodyHeight,
		Speed,
		Walk,
		WalkForward,
		WalkBack,
		WalkLeft,
		WalkRight,
		WalkStop,
		AkkuCharge,
	}
}

var catalog = map[ActionName]Action{
	Reset:    {Name: Reset, Endpoint: "reset", Label: "reset robobug", Kind: Command},
	PowerOn:  {Name: PowerOn, Endpoint: "power_on", Label: "power on", Kind: Command},
	PowerOff: {Name: PowerOff, Endpoint: "power_off", Label: "power off", Kind: Command},
	Sound: {
		Name:     Sound,
		Endpoint: "sound",
		Label:    "play a sound. duration: [DURATION] frequency: [FREQUENCY]",
		Kind:     Command,
		Params: []Param{
			{Name: "duration", Arg: "DURATION", Min: 0, Max: 255, Default: 10, Description: "duration in ms, from 0 to 255"},
			{Name: "frequency", Arg: "FREQUENCY", Min: 0, Max: 2550, Default: 1200, Description: "frequency of tone, from 0 to 2550"},
		},
	},
	BodyHeight: {
		Name:     BodyHeight,
		Endpoint: "body_height",
		Label:    "height: [HEIGHT]",
		Kind:     Command,
		Params: []Param{
			{Name: "height", Arg: "HEIGHT", Min: 0, Max: 100, Default: 60, Description: "height, from 0 to 100"},
		},
	},
	Speed: {
		Name:     Speed,
		Endpoint: "speed",
		Label:    "speed: [SPEED]",
		Kind:     Command,
		Params: []Param{
			{Name: "speed", Arg: "SPEED", Min: 0, Max: 100, Default: 50, Description: "speed, from 0 to 100"},
		},
	},
	Walk: {
		Name:     Walk,
		Endpoint: "walk",
		Label:    "walk forward: [FORWARD] sideward: [SIDE] turn:[TURN]",
		Kind:     Command,
		Params: []Param{
			{Name: "forward", Arg: "FORWARD", Min: -100, Max: 100, Default: 0, Description: "forward or backward speed, from -100 to 100"},
			{Name: "side", Arg: "SIDE", Min: -100, Max: 100, Default: 0, Description: "left or right speed, from -100 to 100"},
			{Name: "turn", Arg: "TURN", Min: -100, Max: 100, Default: 0, Description: "turn left or right while walking, from -100 to 100"},
		},
	},
	WalkForward: {Name: WalkForward, Endpoint: "walk_forward", Label: "walk forward", Kind: Command},
	WalkBack:    {Name: WalkBack, Endpoint: "walk_back", Label: "walk back", Kind: Command},
	WalkLeft:    {Name: WalkLeft, Endpoint: "walk_left", Label: "walk left", Kind: Command},
	WalkRight:   {Name: WalkRight, Endpoint: "walk_right", Label: "walk right", Kind: Command},
	WalkStop:    {Name: WalkStop, Endpoint: "walk_stop", Label: "stop walking", Kind: Command},
	AkkuCharge:  {Name: AkkuCharge, Endpoint: "akku_charge", Label: "akku charge", Kind: Reporter},
}

// Lookup returns the catalog entry for an action name.
func Lookup(name ActionName) (Action, bool) {
	a, ok := catalog[name]
	return a, ok
}

// Actions returns all catalog entries in catalog order.
func Actions() []Action {
	names := AllActions()
	out := make([]Action, 0, len(names))
	for _, name := range names {
		out = append(out, catalog[name])
	}
	return out
}

// Arguments clamps raw host arguments into query parameters, in declaration
// order. A value may be keyed by the host argument key ("HEIGHT") or by the
// query key ("height"); missing values fall back to the parameter default.
func (a Action) Arguments(raw map[string]any) []QueryParam {
	params := make([]QueryParam, 0, len(a.Params))
	for _, p := range a.Params {
		v, ok := raw[p.Arg]
		if !ok {
			v = raw[p.Name]
		}
		params = append(params, QueryParam{Key: p.Name, Value: p.Clamp(v)})
	}
	return params
}
