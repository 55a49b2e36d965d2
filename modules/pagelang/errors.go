// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package pagelang

import "errors"

// ErrUnknownLanguage is returned for submitted codes that are not known
// languages when validation is enabled.
var ErrUnknownLanguage = errors.New("unknown language code")
