package main

// DefaultScriptFile is the SQL script loaded by migrate when no file is given.
const DefaultScriptFile = "world.sql"

// Valid seed file formats.
var validFormats = []string{"auto", "json", "csv"}
