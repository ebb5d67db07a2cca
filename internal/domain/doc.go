// Package domain models the JHU CSSE global COVID-19 time series and the
// per-country aggregate a dashboard is drawn from.
//
// # Data Source
//
// The Johns Hopkins CSSE repository publishes three "wide" CSV files, one per
// metric (confirmed, deaths, recovered), under
// csse_covid_19_data/csse_covid_19_time_series/. Each row identifies a region
// and each column after the fourth is a date:
//
//	Province/State,Country/Region,Lat,Long,1/22/20,1/23/20,...
//	,Afghanistan,33.93911,67.709953,0,0,...
//	Diamond Princess,Canada,,,0,0,...
//
// Values are cumulative counts. Province/State is blank for whole-country
// rows; Lat/Long are blank for a few rows (ships, repatriated travellers).
// Missing coordinates are carried as NaN throughout.
//
// # Pipeline
//
// Built once at startup, in order:
//
//	Melt       wide → tidy, one Observation per (row, date)
//	Merge      left join of deaths and recovered onto confirmed; active derived
//	Normalize  sub-region promotion then country aliasing (see Rules)
//	Impute     country-mean coordinates for configured countries
//	Aggregate  one CountryDay per (date, country)
//
// The result is wrapped in a Snapshot, which is never mutated afterwards and
// answers per-country queries (Snapshot.Query).
//
// # Known data characteristics
//
// Deaths or recovered rows with no matching confirmed row are dropped by the
// left join without warning. Active can be negative when sources disagree.
// The recovered file stopped being maintained in August 2021, so its global
// previous-day total can be zero; it is the only percentage change guarded
// against division by zero.
//
// # Map zoom
//
// Zoom is a linear function of country area, calibrated so that ~8,900 sq mi
// maps to 7 and ~3,800,000 sq mi to 3. It is not clamped, so very small or
// very large countries fall outside that range.
package domain
