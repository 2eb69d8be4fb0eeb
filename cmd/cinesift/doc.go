// Command cinesift reconciles two movie metadata tables and a ratings
// export into a single cleaned CSV, optionally backfilling missing fields
// from The Movie Database.
package main
