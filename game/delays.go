package game

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Delays are the display pauses between a hand ending and the next hand
// being dealt, in milliseconds.
type Delays struct {
	ShowdownResult uint32 `yaml:"showdownResult"`
	RoundWinner    uint32 `yaml:"roundWinner"`
}

func DefaultDelays() Delays {
	return Delays{
		ShowdownResult: 5000,
		RoundWinner:    3000,
	}
}

func ParseDelayConfig(delaysFile string) (Delays, error) {
	bytes, err := ioutil.ReadFile(delaysFile)
	if err != nil {
		return Delays{}, errors.Wrap(err, fmt.Sprintf("Error reading delay config file [%s]", delaysFile))
	}

	var data Delays
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return Delays{}, errors.Wrap(err, fmt.Sprintf("Error parsing delays YAML file [%s]", delaysFile))
	}

	return data, nil
}
