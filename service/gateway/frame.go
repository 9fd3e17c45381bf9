package gateway

import "encoding/json"

// EventFrame is the outbound wire format for every push.
type EventFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Command is the inbound client format, e.g.
// {"cmd":"join_family","data":{"familyId":"3"}}.
type Command struct {
	Cmd  string         `json:"cmd"`
	Data map[string]any `json:"data"`
}

// Ack acknowledges a client command.
type Ack struct {
	Cmd     string `json:"cmd"`
	Success bool   `json:"success"`
	Code    int    `json:"code,omitempty"`
	Msg     string `json:"msg,omitempty"`
}

func MarshalFrame(event string, data any) ([]byte, error) {
	return json.Marshal(EventFrame{Event: event, Data: data})
}

func ParseCommand(data []byte) (*Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil, err
	}
	return &cmd, nil
}
