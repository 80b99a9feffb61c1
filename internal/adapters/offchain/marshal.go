package offchain

import (
	"encoding/json"
	"fmt"
)

func marshalCommand(payload any) (json.RawMessage, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal command payload: %w", err)
	}
	return raw, nil
}
