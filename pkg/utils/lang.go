package utils

import (
	"github.com/abadojack/whatlanggo"
)

var whatLangOpts = whatlanggo.Options{
	Whitelist: map[whatlanggo.Lang]bool{
		whatlanggo.Eng: true,
		whatlanggo.Spa: true,
		whatlanggo.Fra: true,
		whatlanggo.Hin: true,
	},
}

// WhatLang guesses the language of an inbound message so the responder can
// hint the model to answer in kind. Short DM text detects poorly, callers
// should treat the result as a hint only.
func WhatLang(query string) string {
	info := whatlanggo.DetectWithOptions(query, whatLangOpts)
	return info.Lang.String()
}
