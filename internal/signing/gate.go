package signing

import "sort"

// GateState is the outcome of evaluating the signing order for an acting
// recipient. Exactly one of Permitted, Blocked, or Unrestricted describes
// the situation; a blocked state names who must act next so the caller can
// render the blocking dialog.
type GateState struct {
	// Permitted means the acting recipient may interact with their fields.
	Permitted bool `json:"permitted"`
	// Blocked means an earlier signer has not finished yet.
	Blocked bool `json:"blocked"`
	// NextSignerEmail is the signer who must act next while Blocked.
	NextSignerEmail string `json:"next_signer_email,omitempty"`
	// Unrestricted means no NOT_SIGNED signer remains; the document is
	// fully signed and a read-only view applies.
	Unrestricted bool `json:"unrestricted"`
}

// EvaluateGate decides whether the acting recipient may currently act under
// the document's signing-order mode. Only SEQUENTIAL mode restricts anyone;
// PARALLEL mode always permits.
//
// A REJECTED signer is terminal in both directions: they are not SIGNED, so
// every signer after them stays blocked with the rejected signer named as
// the one holding things up, and their own session is blocked too since a
// rejection is not retried.
func EvaluateGate(recipients []Recipient, actingEmail string, mode SigningOrderMode) GateState {
	if mode != OrderSequential {
		return GateState{Permitted: true}
	}

	signers := make([]Recipient, 0, len(recipients))
	for _, r := range recipients {
		if r.Role == RoleSigner {
			signers = append(signers, r)
		}
	}
	sort.SliceStable(signers, func(i, j int) bool {
		return signers[i].SigningOrder < signers[j].SigningOrder
	})

	for _, s := range signers {
		if s.SigningStatus == StatusSigned {
			continue
		}
		// s is the next signer who still has to act.
		if s.Email == actingEmail && s.SigningStatus != StatusRejected {
			return GateState{Permitted: true}
		}
		return GateState{Blocked: true, NextSignerEmail: s.Email}
	}

	return GateState{Unrestricted: true}
}
