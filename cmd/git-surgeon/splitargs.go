package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/surgeonkit/surgeon/patch"
	"github.com/surgeonkit/surgeon/surgeon"
)

// parseSplitArgs parses the trailing arguments of the split command:
//
//	--pick <ids...> -m <msg> [-m <body>...] [--pick ...] [--rest-message <msg>...]
//
// into pick groups and the optional rest-commit message. Message parts
// are joined by blank lines.
func parseSplitArgs(args []string) ([]surgeon.PickGroup, string, error) {
	var (
		groups       []surgeon.PickGroup
		restMessages []string

		currentPicks []surgeon.Pick
		currentMsgs  []string
		seenRest     bool
	)

	flush := func() error {
		if len(currentPicks) > 0 {
			if len(currentMsgs) == 0 {
				return errors.New("--pick group missing --message")
			}
			groups = append(groups, surgeon.PickGroup{
				Picks:   currentPicks,
				Message: joinMessages(currentMsgs),
			})
			currentPicks = nil
			currentMsgs = nil
		} else if len(currentMsgs) > 0 {
			return errors.New("--message without preceding --pick")
		}
		return nil
	}

	i := 0
	for i < len(args) {
		switch arg := args[i]; arg {
		case "--pick":
			if seenRest {
				return nil, "", errors.New("--pick not allowed after --rest-message")
			}
			// A second --pick before any --message extends the same
			// group instead of starting a new one.
			if len(currentMsgs) > 0 {
				if err := flush(); err != nil {
					return nil, "", err
				}
			}
			i++
			for i < len(args) && !strings.HasPrefix(args[i], "-") {
				pick, err := parsePickID(args[i])
				if err != nil {
					return nil, "", err
				}
				currentPicks = append(currentPicks, pick)
				i++
			}
			if len(currentPicks) == 0 {
				return nil, "", errors.New("--pick requires at least one hunk ID")
			}

		case "--message", "-m":
			if seenRest {
				return nil, "", errors.New("--message not allowed after --rest-message")
			}
			i++
			if i >= len(args) {
				return nil, "", errors.New("--message requires a value")
			}
			if len(currentPicks) == 0 {
				return nil, "", errors.New("--message without preceding --pick")
			}
			currentMsgs = append(currentMsgs, args[i])
			i++

		case "--rest-message":
			if err := flush(); err != nil {
				return nil, "", err
			}
			seenRest = true
			i++
			if i >= len(args) {
				return nil, "", errors.New("--rest-message requires a value")
			}
			restMessages = append(restMessages, args[i])
			i++

		default:
			return nil, "", fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	if err := flush(); err != nil {
		return nil, "", err
	}
	if len(groups) == 0 {
		return nil, "", errors.New("at least one --pick ... --message pair is required")
	}

	return groups, joinMessages(restMessages), nil
}

// parsePickID parses a hunk ID with optional comma-separated line ranges,
// e.g. "3f2a9c1" or "3f2a9c1:2,5-6,34".
func parsePickID(s string) (surgeon.Pick, error) {
	id, rangeStr, found := strings.Cut(s, ":")
	if !found {
		return surgeon.Pick{ID: s}, nil
	}

	var ranges []patch.Range
	for _, part := range strings.Split(rangeStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := parseLineRange(part)
		if err != nil {
			return surgeon.Pick{}, err
		}
		ranges = append(ranges, r)
	}
	// "id:" with nothing after selects the whole hunk.
	return surgeon.Pick{ID: id, Ranges: ranges}, nil
}

// parseLineRange parses "5" or "5-30" into a 1-based inclusive range over
// the hunk-relative line numbers shown by show and hunks --full.
func parseLineRange(s string) (patch.Range, error) {
	var start, end int
	if a, b, found := strings.Cut(s, "-"); found {
		var err error
		start, err = strconv.Atoi(a)
		if err != nil {
			return patch.Range{}, errors.New("invalid start number")
		}
		end, err = strconv.Atoi(b)
		if err != nil {
			return patch.Range{}, errors.New("invalid end number")
		}
	} else {
		n, err := strconv.Atoi(s)
		if err != nil {
			return patch.Range{}, errors.New("invalid line number")
		}
		start, end = n, n
	}
	if start <= 0 || end <= 0 || start > end {
		return patch.Range{}, errors.New("range must be 1-based and start <= end")
	}
	return patch.Range{Start: start, End: end}, nil
}
