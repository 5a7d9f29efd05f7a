// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import "strings"

// States lists the Indian states and union territories the assistant
// can be queried about, in alphabetical order.
var States = []string{
	"Andaman and Nicobar Islands",
	"Andhra Pradesh",
	"Arunachal Pradesh",
	"Assam",
	"Bihar",
	"Chandigarh",
	"Chhattisgarh",
	"Dadra and Nagar Haveli and Daman and Diu",
	"Delhi",
	"Goa",
	"Gujarat",
	"Haryana",
	"Himachal Pradesh",
	"Jammu and Kashmir",
	"Jharkhand",
	"Karnataka",
	"Kerala",
	"Ladakh",
	"Lakshadweep",
	"Madhya Pradesh",
	"Maharashtra",
	"Manipur",
	"Meghalaya",
	"Mizoram",
	"Nagaland",
	"Odisha",
	"Puducherry",
	"Punjab",
	"Rajasthan",
	"Sikkim",
	"Tamil Nadu",
	"Telangana",
	"Tripura",
	"Uttar Pradesh",
	"Uttarakhand",
	"West Bengal",
}

// IsState reports whether name matches a known state or union
// territory, ignoring case.
func IsState(name string) bool {
	for _, s := range States {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// StateQuery returns the canned query sent when the user picks a state
// from the browser instead of typing a question.
func StateQuery(stateName string) string {
	return "Provide a detailed summary of groundwater levels in " + stateName + "."
}
