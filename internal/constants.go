package internal

const Version = "0.1.0"
