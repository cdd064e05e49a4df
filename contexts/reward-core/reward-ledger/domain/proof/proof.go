package proof

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Hash binds a grant to the submission that earned it. The salt makes proofs
// for re-reviewed submissions distinct; without it a resubmission after an
// admin correction could never be rewarded.
func Hash(recipient string, week int, submissionID string, salt uint64) string {
	buf := make([]byte, 0, common.AddressLength+1+len(submissionID)+8)
	buf = append(buf, common.HexToAddress(recipient).Bytes()...)
	buf = append(buf, byte(week))
	buf = append(buf, []byte(submissionID)...)
	buf = binary.BigEndian.AppendUint64(buf, salt)
	return common.BytesToHash(crypto.Keccak256(buf)).Hex()
}
