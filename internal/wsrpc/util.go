package wsrpc

import (
	"encoding/json"
	"errors"
)

var errClosedSocket = errors.New("wsrpc: socket is closed")

func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
