package protocol

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/jetsetilly/tracepointd/terrs"
)

// Transport is the putpkt/getpkt pair the real debugger supplies; it is an
// external collaborator per §1; here it is modelled as this thin interface
// with a test double behind it.
type Transport interface {
	GetPkt() (string, error)
}

// RegisterUpdate is one decoded entry from an 'R' register-dump packet.
type RegisterUpdate struct {
	Register int
	Value    []byte
}

// ReplyReader drives the §4.7 noisy-reply loop. OnRegister and OnConsole are
// invoked synchronously as 'R' and 'O' packets are consumed; both may be
// nil if the caller does not care.
type ReplyReader struct {
	OnRegister func(RegisterUpdate)
	OnConsole  func(text string)
}

// Read consumes packets from t until a terminal reply arrives, per the loop
// in §4.7. The returned payload never starts with 'R' or 'E', and starts
// with 'O' only when it is exactly "OK" (Testable Property 6).
func (rr *ReplyReader) Read(t Transport) (string, error) {
	for {
		pkt, err := t.GetPkt()
		if err != nil {
			return "", terrs.New(terrs.ProtocolError, "transport error: %v", err)
		}

		if pkt == "" {
			return "", terrs.New(terrs.Unsupported, "target returned an empty reply")
		}

		switch pkt[0] {
		case 'E':
			return "", decodeRemoteError(pkt)

		case 'R':
			upd, err := parseRegisterDump(pkt[1:])
			if err != nil {
				return "", err
			}
			if rr.OnRegister != nil {
				for _, u := range upd {
					rr.OnRegister(u)
				}
			}
			continue

		case 'O':
			if pkt == "OK" {
				return pkt, nil
			}
			decoded, err := hex.DecodeString(pkt[1:])
			if err != nil {
				return "", terrs.New(terrs.ProtocolError, "malformed console-output packet: %v", err)
			}
			if rr.OnConsole != nil {
				rr.OnConsole(string(decoded))
			}
			continue

		default:
			return pkt, nil
		}
	}
}

// parseRegisterDump decodes the whitespace-free "regno:hexbytes;" entries
// that follow the leading 'R' of a register-dump packet.
func parseRegisterDump(body string) ([]RegisterUpdate, error) {
	var updates []RegisterUpdate
	for _, entry := range strings.Split(strings.TrimSuffix(body, ";"), ";") {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			return nil, terrs.New(terrs.ProtocolError, "malformed register-dump entry: %q", entry)
		}
		regno, err := strconv.ParseInt(parts[0], 16, 64)
		if err != nil {
			return nil, terrs.New(terrs.ProtocolError, "malformed register number: %q", parts[0])
		}
		value, err := hex.DecodeString(parts[1])
		if err != nil {
			return nil, terrs.New(terrs.ProtocolError, "malformed register value: %q", parts[1])
		}
		updates = append(updates, RegisterUpdate{Register: int(regno), Value: value})
	}
	return updates, nil
}

// decodeRemoteError subcategorises an 'E'-prefixed reply per §7: E10 is the
// whole outgoing packet being malformed, E1n is field n being malformed,
// E2xx is a target-side trace API error carrying code xx, and anything else
// is treated as an opaque string.
func decodeRemoteError(pkt string) error {
	body := pkt[1:]

	if body == "10" {
		return terrs.NewRemote(terrs.RemoteMalformedPacket, 0, "target rejected the packet as malformed")
	}

	if len(body) > 1 && body[0] == '1' {
		if n, err := strconv.Atoi(body[1:]); err == nil {
			return terrs.NewRemote(terrs.RemoteMalformedField, n, "target rejected field %d as malformed", n)
		}
	}

	if len(body) > 1 && body[0] == '2' {
		if code, err := strconv.ParseInt(body[1:], 16, 64); err == nil {
			return terrs.NewRemote(terrs.RemoteTraceAPI, int(code), "target-side trace API error %x", code)
		}
	}

	return terrs.NewRemote(terrs.RemoteUnknown, 0, "remote error: %s", body)
}
