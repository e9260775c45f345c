package zscaler

var ParseHub = parseHub
