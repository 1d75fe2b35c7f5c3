// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package csvsource lists the CSV files of a folder and parses them into
// row sets tagged with their source file name.
package csvsource
