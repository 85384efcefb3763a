// Package credentials generates player codenames and hint reference codes.
package credentials

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Word lists for agent codenames
var ranks = []string{
	"agente", "cadete", "detective", "elfa", "espia", "inspectora",
	"capitana", "comandante", "exploradora", "sargento",
}

var aliases = []string{
	"copo", "reno", "estrella", "muerdago", "turron", "polvoron", "trineo", "abeto",
	"campana", "vela", "bufanda", "galleta", "canela", "nieve", "cometa", "lazo",
}

// GenerateCodename returns a random "rank-alias" name for a new player
func GenerateCodename() (string, error) {
	rank, err := randomElement(ranks)
	if err != nil {
		return "", err
	}

	alias, err := randomElement(aliases)
	if err != nil {
		return "", err
	}

	return rank + "-" + alias, nil
}

// GenerateHintReference returns a code in the form SEC-<level>-<nnn> that the
// player quotes to the operator when asking for a hint unlock code
func GenerateHintReference(levelID int) (string, error) {
	num, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("SEC-%d-%03d", levelID, num.Int64()), nil
}

func randomElement(slice []string) (string, error) {
	if len(slice) == 0 {
		return "", nil
	}

	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slice))))
	if err != nil {
		return "", err
	}

	return slice[num.Int64()], nil
}
