// Package token implements the correlation token embedded in approval
// buttons. The wire form is <action>_<postID>; post ids are base58 so the
// first underscore always separates the two fields.
package token

import (
	"errors"
	"fmt"
	"strings"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

var ErrorMalformedToken = errors.New("malformed callback token")

func (a Action) Valid() bool {
	return a == ActionApprove || a == ActionReject
}

func Encode(action Action, postID string) string {
	return fmt.Sprintf("%s_%s", action, postID)
}

func Decode(s string) (Action, string, error) {
	head, tail, found := strings.Cut(s, "_")
	if !found {
		return "", "", ErrorMalformedToken
	}
	action := Action(head)
	if !action.Valid() {
		return "", "", fmt.Errorf("%w: unknown action %q", ErrorMalformedToken, head)
	}
	if tail == "" || strings.ContainsAny(tail, " \t\n") {
		return "", "", fmt.Errorf("%w: bad post id", ErrorMalformedToken)
	}
	return action, tail, nil
}
