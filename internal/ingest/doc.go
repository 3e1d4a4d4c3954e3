// Package ingest discovers and loads per-payload CSV exports of the
// balloon level-two products.
//
// Files follow the mission naming scheme
// bar_<payload>_l2_<ephm|fspc>_<YYYYMMDD>_v<NN>.csv. The first column holds
// the sample timestamp and the remaining columns are named after the
// product variables. Load keeps only the requested variables, converts the
// instrument fill value to NaN, drops incomplete rows and, for spectra,
// sorts by time.
package ingest
