// Animedex - Anime Tracking and Discovery Backend
// Copyright 2026 Animedex Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/animedex/animedex

/*
Package config provides layered application configuration using koanf.

Configuration loads in three layers, each overriding the previous:

 1. Struct defaults (DefaultConfig)
 2. YAML config file (first of config.yaml, config.yml,
    /etc/animedex/config.yaml, or CONFIG_PATH)
 3. Environment variables (ANIMEDEX_SERVER_PORT and friends)

The loaded configuration is validated before use; an invalid
configuration fails startup rather than degrading at request time.
*/
package config
