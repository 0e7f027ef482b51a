/*
The banktransferd daemon serves the bank transfer payment method of the
crowdfunding site.

Usage:

	banktransferd

	Flags understood by banktransferd:
	  -c          Path to config file name.
	              Alternatively the environment var $BANKTRANSFERDCFG can be used to set
	              the configuration file name. A .env file in the working directory
	              is loaded before the environment is read.

	Example:
	  banktransferd -c /etc/banktransferd/banktransferd.config.json
*/
package main
