package game

// CommandKind represents the type of an input command.
type CommandKind int

const (
	CmdStart CommandKind = iota
	CmdPause
	CmdReset
	CmdMove
	CmdPlaceBomb
)

func (k CommandKind) String() string {
	switch k {
	case CmdStart:
		return "start"
	case CmdPause:
		return "pause"
	case CmdReset:
		return "reset"
	case CmdMove:
		return "move"
	case CmdPlaceBomb:
		return "place_bomb"
	}
	return "unknown"
}

// Command is a discrete, already-debounced input.
type Command struct {
	Kind CommandKind
	Dir  Direction // Only relevant for CmdMove
}

func Start() Command { return Command{Kind: CmdStart} }
func Pause() Command { return Command{Kind: CmdPause} }
func Reset() Command { return Command{Kind: CmdReset} }
func Move(d Direction) Command { return Command{Kind: CmdMove, Dir: d} }
func PlaceBomb() Command { return Command{Kind: CmdPlaceBomb} }
