package controller

// command is the sealed set of requests the controller's dedicated-thread
// loop accepts over its bounded command channel.
type command interface{ isCommand() }

// startCmd requests a new transcription session with apiKey.
type startCmd struct {
	apiKey string
	reply  chan<- error
}

func (startCmd) isCommand() {}

// StopOutcome is the result of a stopCmd: the stashed last-committed text
// (if any) and the outcome of stopping the underlying session.
type StopOutcome struct {
	Text string
	Err  error
}

// stopCmd requests the active session stop and the stashed committed text
// be returned.
type stopCmd struct {
	reply chan<- StopOutcome
}

func (stopCmd) isCommand() {}

// cancelCmd requests a best-effort abort of any in-flight session.
type cancelCmd struct {
	reply chan<- error
}

func (cancelCmd) isCommand() {}
