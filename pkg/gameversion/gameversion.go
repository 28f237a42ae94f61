// Package gameversion maps ticket service ids to LittleBigPlanet releases.
package gameversion

import (
	"errors"
	"fmt"
	"regexp"
)

// GameVersion is a LittleBigPlanet release
type GameVersion uint8

// Game versions
const (
	LBP1 GameVersion = iota + 1
	LBP2
	LBP3
)

// ErrUnknownTitle is returned for service ids of titles that are not LittleBigPlanet games
var ErrUnknownTitle = errors.New("title id does not belong to a supported game")

var serviceIDPattern = regexp.MustCompile(`^[A-Z]{2}\d{4}-([A-Z]{4}\d{5})_00$`)

var titles = func() map[string]GameVersion {
	m := make(map[string]GameVersion)
	for v, ids := range map[GameVersion][]string{LBP1: lbp1TitleIDs, LBP2: lbp2TitleIDs, LBP3: lbp3TitleIDs} {
		for _, id := range ids {
			m[id] = v
		}
	}
	return m
}()

// TitleID extracts the title id from a service id such as "UP9000-BCUS98148_00"
func TitleID(serviceID string) (string, error) {
	m := serviceIDPattern.FindStringSubmatch(serviceID)
	if m == nil {
		return "", fmt.Errorf("%w: no title id in service id %q", ErrUnknownTitle, serviceID)
	}
	return m[1], nil
}

// FromServiceID returns the game a ticket was issued for
func FromServiceID(serviceID string) (GameVersion, error) {
	titleID, err := TitleID(serviceID)
	if err != nil {
		return 0, err
	}
	v, ok := titles[titleID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTitle, titleID)
	}
	return v, nil
}

func (v GameVersion) String() string {
	switch v {
	case LBP1:
		return "lbp1"
	case LBP2:
		return "lbp2"
	case LBP3:
		return "lbp3"
	}
	return fmt.Sprintf("unknown(%d)", uint8(v))
}
