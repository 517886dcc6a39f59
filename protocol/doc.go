// Package protocol implements the Serializer (§4.5) and ReplyReader (§4.7)
// components: rendering a tracepoint's compiled CollectionLists into the
// wire packets the target understands, and driving the noisy-reply loop
// that every protocol exchange goes through. Hex/byte framing follows the
// teacher's own use of encoding/hex for its memory-poke commands.
package protocol
