/*
 * Copyright 2026 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"strings"
	"unicode"
)

// splitSQLStatements breaks a migration file into individual statements on
// semicolons, honoring quoted strings, line and block comments, and
// dollar-quoted bodies so function definitions survive intact.
func splitSQLStatements(content string) []string {
	var (
		statements []string
		current    strings.Builder
	)

	state := &sqlSplitState{}

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if state.inLineComment {
			if ch == '\n' {
				state.inLineComment = false
				current.WriteByte(ch)
			}
			continue
		}

		if state.inBlockComment {
			if ch == '*' && i+1 < len(content) && content[i+1] == '/' {
				state.inBlockComment = false
				i++
			}
			continue
		}

		if state.dollarTag != "" {
			if strings.HasPrefix(content[i:], state.dollarTag) {
				current.WriteString(state.dollarTag)
				i += len(state.dollarTag) - 1
				state.dollarTag = ""
				continue
			}

			current.WriteByte(ch)
			continue
		}

		if !state.inSingleQuote && !state.inDoubleQuote {
			if startsComment(content, i, "--") {
				state.inLineComment = true
				i++
				continue
			}

			if startsComment(content, i, "/*") {
				state.inBlockComment = true
				i++
				continue
			}

			if tag, advance := parseDollarTag(content[i:]); tag != "" {
				state.dollarTag = tag
				current.WriteString(tag)
				i += advance - 1
				continue
			}
		}

		if !state.inDoubleQuote && ch == '\'' {
			state.inSingleQuote = !state.inSingleQuote
			current.WriteByte(ch)
			continue
		}

		if !state.inSingleQuote && ch == '"' {
			state.inDoubleQuote = !state.inDoubleQuote
			current.WriteByte(ch)
			continue
		}

		if ch == ';' && !state.inSingleQuote && !state.inDoubleQuote && state.dollarTag == "" {
			if stmt := strings.TrimSpace(current.String()); stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
			continue
		}

		current.WriteByte(ch)
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

type sqlSplitState struct {
	inSingleQuote  bool
	inDoubleQuote  bool
	inLineComment  bool
	inBlockComment bool
	dollarTag      string
}

func startsComment(content string, i int, marker string) bool {
	return content[i] == marker[0] && i+1 < len(content) && content[i+1] == marker[1]
}

// parseDollarTag recognizes a dollar-quote opener like $$ or $body$ at the
// start of content, returning the tag and how far the scanner should advance.
func parseDollarTag(content string) (string, int) {
	if content == "" || content[0] != '$' {
		return "", 0
	}

	for i := 1; i < len(content); i++ {
		if content[i] == '$' {
			return content[:i+1], i + 1
		}

		if !isDollarTagChar(content[i]) {
			return "", 0
		}
	}

	return "", 0
}

func isDollarTagChar(ch byte) bool {
	return ch == '_' || unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch))
}

// extractVersion derives the migration version from a filename such as
// 0001_init.up.sql.
func extractVersion(filename string) string {
	parts := strings.Split(filename, "_")
	if len(parts) == 0 {
		return filename
	}

	return parts[0]
}
