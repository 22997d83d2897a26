// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package media

import (
	"fmt"
	"strconv"
	"strings"
)

// quicktimeCodecs are natively supported by Apple QuickTime/iOS. Everything
// else (VP9, AV1, ...) requires a re-encode.
var quicktimeCodecs = map[string]bool{
	"h264": true,
	"hevc": true,
	"avc1": true,
	"hvc1": true,
	"aac":  true,
	"mp4a": true,
}

// squareSARSentinels are SAR values that already mean "square pixels".
var squareSARSentinels = map[string]bool{
	"1:1": true,
	"N/A": true,
	"0:1": true,
	"":    true,
}

// NeedsFix decides whether a file must be re-encoded for QuickTime
// compatibility and names the reason. Unknown codec or SAR counts as
// compatible; a malformed SAR string is deliberately treated as "no fix".
func NeedsFix(info ProbeResult) (bool, string) {
	if info.Codec != "" && !quicktimeCodecs[strings.ToLower(info.Codec)] {
		return true, fmt.Sprintf("incompatible codec: %s", info.Codec)
	}

	if !squareSARSentinels[info.SAR] {
		parts := strings.Split(info.SAR, ":")
		if len(parts) == 2 {
			num, numErr := strconv.Atoi(parts[0])
			den, denErr := strconv.Atoi(parts[1])
			if numErr == nil && denErr == nil && den > 0 && num != den {
				return true, fmt.Sprintf("non-square SAR: %s", info.SAR)
			}
		}
	}

	return false, ""
}
