package model

// Cmd is a model of the OS command. Arguments are passed as a slice and are never
// interpolated into a shell string.
type Cmd struct {
	Name string
	Args []string
	Env  []string
	Dir  string
	Log  bool
}
