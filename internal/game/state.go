package game

// PlayerState is a player's position in its lifecycle
type PlayerState int32

const (
	PlayerSetup PlayerState = iota
	PlayerCheckingInitial
	PlayerRunning
	PlayerWon
	PlayerLost
	PlayerStopped
)

// String returns the string representation of a player state
func (s PlayerState) String() string {
	switch s {
	case PlayerSetup:
		return "setup"
	case PlayerCheckingInitial:
		return "checking-initial"
	case PlayerRunning:
		return "running"
	case PlayerWon:
		return "won"
	case PlayerLost:
		return "lost"
	case PlayerStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// TableState is the table's position in the game lifecycle
type TableState int

const (
	TableSetup TableState = iota
	TableDealing
	TableRunning
	TableWon
	TableFinalized
	// TableAborted is entered when the game ends without a winner
	TableAborted
)

// String returns the string representation of a table state
func (s TableState) String() string {
	switch s {
	case TableSetup:
		return "setup"
	case TableDealing:
		return "dealing"
	case TableRunning:
		return "running"
	case TableWon:
		return "won"
	case TableFinalized:
		return "finalized"
	case TableAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Over reports whether no more play can happen in this state
func (s TableState) Over() bool {
	return s == TableWon || s == TableFinalized || s == TableAborted
}
