package kafka

import (
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/turtacn/smiles-parser/pkg/errors"
)

// SASL mechanism names accepted in configuration.
const (
	SASLPlain       = "PLAIN"
	SASLScramSHA256 = "SCRAM-SHA-256"
	SASLScramSHA512 = "SCRAM-SHA-512"
)

// saslMechanism builds the mechanism for name.  An empty name disables SASL
// and returns nil.
func saslMechanism(name, username, password string) (sasl.Mechanism, error) {
	var (
		mech sasl.Mechanism
		err  error
	)
	switch name {
	case "":
		return nil, nil
	case SASLPlain:
		mech = plain.Mechanism{Username: username, Password: password}
	case SASLScramSHA256:
		mech, err = scram.Mechanism(scram.SHA256, username, password)
	case SASLScramSHA512:
		mech, err = scram.Mechanism(scram.SHA512, username, password)
	default:
		return nil, errors.New(errors.ErrCodeValidation, "unsupported SASL mechanism").WithDetail(name)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create SASL mechanism")
	}
	return mech, nil
}

//Personal.AI order the ending
