package domain

// AgentClass tags the behavioral variant of an agent.
type AgentClass string

// Agent classes.
const (
	ClassInsider  AgentClass = "insider"
	ClassOutsider AgentClass = "outsider"
)

// AgentClasses lists all classes in reporting order.
var AgentClasses = []AgentClass{ClassInsider, ClassOutsider}

// Label returns the capitalized class name used in reports.
func (c AgentClass) Label() string {
	switch c {
	case ClassInsider:
		return "Insider"
	case ClassOutsider:
		return "Outsider"
	default:
		return string(c)
	}
}
