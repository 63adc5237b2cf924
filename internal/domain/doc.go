// Package domain models state-wise pandemic case counts reported by Indian
// public data providers and the logic that reconciles them.
//
// # Providers
//
// Four record shapes are consumed, each decoded by an adapter before it
// reaches this package:
//
//	covid19india   https://api.covid19india.org/data.json, "statewise" array.
//	               Flat string fields: state, statecode, confirmed, recovered,
//	               deaths, active. Includes a "Total" row and a
//	               "State Unassigned" bucket.
//	mohfw-api      https://www.mohfw.gov.in/data/datanew.json. Flat fields
//	               state_name, new_positive, new_cured, new_death, new_active.
//	mohfw-site     https://www.mohfw.gov.in, the striped HTML table. Six cells
//	               per row: serial, name, active, recovered, deaths, confirmed.
//	ndma-api       ArcGIS feature query. Nested "attributes" object with
//	               state_name, confirmedcases, cured_discharged_migrated,
//	               deaths. No active field; active is derived.
//
// # Region names
//
// Providers disagree on spelling ("Telengana"), punctuation
// ("Dadra & Nagar Haveli"), and on whether merged union territories are
// reported jointly or as their historical parts. All of this lives in the
// region table (regions.yaml), not in code:
//
//	aliases       alternative spellings of one region
//	kind          state (default), aggregate ("Total"), unassigned
//	              (cases not yet attributed to a state), historical
//	merged_into   on a historical region, the code of the region it now
//	              belongs to; a secondary source reporting every part is
//	              summed when matched against the merged region
//
// # Scraped values
//
// Site cells carry footnote markers: "#", "*", "+". They are stripped, with
// whitespace and thousands separators, before parsing. Any count that still
// fails to parse rejects the whole row with [ErrMalformedRecord]; the rest of
// the report is unaffected.
//
// # Derived values
//
// active = confirmed - recovered - deceased when a provider does not supply
// it. A negative result is an upstream data anomaly and is kept as is.
package domain
